package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blockview/blockview/internal/overlay"
)

var (
	flagPage  int
	flagScale float64
)

var overlayCmd = &cobra.Command{
	Use:   "overlay <payload.json>",
	Short: "Print the overlay rectangles for one page",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverlay,
}

func init() {
	rootCmd.AddCommand(overlayCmd)
	overlayCmd.Flags().IntVar(&flagPage, "page", 0, "0-based page index")
	overlayCmd.Flags().Float64Var(&flagScale, "scale", 1.0, "zoom scale factor")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	if flagPage < 0 {
		return fmt.Errorf("page must be >= 0")
	}
	if flagScale <= 0 {
		return fmt.Errorf("scale must be > 0")
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	rects := overlay.Project(doc, flagPage, flagScale, "")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tX\tY\tW\tH\tTOOLTIP")
	for _, r := range rects {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n", r.ID, r.X, r.Y, r.Width, r.Height, preview(r.Tooltip, 40))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d rects on page %d at scale %.2f\n", len(rects), flagPage, flagScale)
	return nil
}
