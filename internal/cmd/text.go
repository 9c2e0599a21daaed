package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/hidepix/internal/app"
	"github.com/yyyoichi/hidepix/validate"
)

func newEncodeCommand(a *app.App) *cobra.Command {
	var (
		input, output string
		message, file string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Hide a text message in an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.CheckImage(input); err != nil {
				return err
			}
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
				message = string(b)
			}
			if message == "" {
				return errors.New("no message provided, use --message or --file")
			}

			s, err := a.Stego()
			if err != nil {
				return err
			}
			if output == "" {
				output = a.OutputPath(input, validate.OutputName("encoded_", input, s.Format()))
			}
			if err := a.ConfirmOverwrite(output); err != nil {
				return err
			}

			a.Logger.Printf("encoding %d bytes into %s", len(message), input)
			if err := s.EncodeTextFile(cmd.Context(), input, message, output); err != nil {
				return err
			}
			fmt.Fprintf(a.OutWriter, "Message encoded into %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Encoded image (default encoded_<input>.<format>)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to hide")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the message from a file")
	cmd.Flags().StringVar(&a.FormatFlag, "format", "", "Output format: png, bmp or tiff")
	cmd.MarkFlagsMutuallyExclusive("message", "file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newDecodeCommand(a *app.App) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Reveal a text message hidden in an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.CheckImage(input); err != nil {
				return err
			}
			s, err := a.Stego()
			if err != nil {
				return err
			}
			a.Logger.Printf("decoding message from %s", input)
			message, err := s.DecodeTextFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.OutWriter, message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Encoded image")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
