package main

import "github.com/blockview/blockview/cmd/blockctl/cmd"

func main() {
	cmd.Execute()
}
