package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blockview/blockview/internal/block"
	"github.com/blockview/blockview/internal/overlay"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <payload.json>",
	Short: "Print the flattened, page-indexed block table",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPAGE\tTYPE\tID\tTEXT")
	for i, b := range doc.Blocks() {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", i, b.PageIndex, b.Type, b.ID, preview(overlay.StripTags(b.HTML), 48))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d blocks across %d pages\n", doc.Len(), doc.PageCount())
	return nil
}

// loadDocument reads a payload file and flattens it. Both the cache
// entry shape ({"success":..,"blocks":{"children":[...]}}) and the bare
// {"children":[...]} structure the extraction service returns are
// accepted.
func loadDocument(path string) (*block.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var probe struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	_ = json.Unmarshal(data, &probe)

	var roots []*block.Block
	if len(probe.Blocks) > 0 {
		roots, err = block.Decode(data)
	} else {
		roots, err = block.DecodeStructure(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return block.NewDocument(roots), nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
