package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/hidepix"
	"github.com/yyyoichi/hidepix/internal/app"
	"github.com/yyyoichi/hidepix/quality"
)

func newCompareCommand(a *app.App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "compare ORIGINAL ENCODED",
		Short: "Measure how much an encoded image differs from its original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := hidepix.Load(args[0])
			if err != nil {
				return err
			}
			encoded, err := hidepix.Load(args[1])
			if err != nil {
				return err
			}
			r, err := quality.Compare(original, encoded)
			if err != nil {
				return err
			}
			if asJSON {
				return a.PrintJSON(r)
			}
			w := app.NewTabWriter(a.OutWriter)
			fmt.Fprintf(w, "Changed channels:\t%d of %d\n", r.Changed, r.Channels)
			fmt.Fprintf(w, "LSB only:\t%v\n", r.LSBOnly)
			fmt.Fprintf(w, "MSE:\t%.6f\n", r.MSE)
			fmt.Fprintf(w, "PSNR:\t%.2f dB\n", r.PSNR)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
