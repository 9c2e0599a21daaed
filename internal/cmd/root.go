package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/hidepix/internal/app"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(app.New())
	root.Version = fmt.Sprintf("%s (%s)", version, commit)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around a.
func NewRootCommand(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:          "hidepix",
		Short:        "Hide text messages and audio files in the pixels of an image",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
				a.JSONFmt.DisabledColor = true
			}

			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.hidepix/config)")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log progress to stderr")
	root.PersistentFlags().BoolVarP(&a.Yes, "yes", "y", false, "Overwrite existing output files without asking")

	root.AddCommand(
		newEncodeCommand(a),
		newDecodeCommand(a),
		newEncodeAudioCommand(a),
		newDecodeAudioCommand(a),
		newCapacityCommand(a),
		newBlankCommand(a),
		newCompareCommand(a),
	)
	return root
}
