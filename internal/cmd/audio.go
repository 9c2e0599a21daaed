package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/hidepix/internal/app"
	"github.com/yyyoichi/hidepix/validate"
)

const decodedAudioName = "decoded_audio.wav"

func newEncodeAudioCommand(a *app.App) *cobra.Command {
	var input, audio, output string
	cmd := &cobra.Command{
		Use:   "encode-audio",
		Short: "Compress an audio file and hide it in an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.CheckImage(input); err != nil {
				return err
			}
			if err := a.CheckAudio(audio); err != nil {
				return err
			}
			data, err := os.ReadFile(audio)
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}

			s, err := a.Stego()
			if err != nil {
				return err
			}
			if output == "" {
				output = a.OutputPath(input, validate.OutputName("audio_encoded_", input, s.Format()))
			}
			if err := a.ConfirmOverwrite(output); err != nil {
				return err
			}

			a.Logger.Printf("encoding %s (%d bytes) into %s", audio, len(data), input)
			if err := s.EncodeAudioFile(cmd.Context(), input, data, output); err != nil {
				return err
			}
			fmt.Fprintf(a.OutWriter, "Audio encoded into %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&audio, "audio", "a", "", "Audio file to hide")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Encoded image (default audio_encoded_<input>.<format>)")
	cmd.Flags().StringVar(&a.FormatFlag, "format", "", "Output format: png, bmp or tiff")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func newDecodeAudioCommand(a *app.App) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "decode-audio",
		Short: "Extract an audio file hidden in an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.CheckImage(input); err != nil {
				return err
			}
			s, err := a.Stego()
			if err != nil {
				return err
			}
			if output == "" {
				output = a.OutputPath(input, decodedAudioName)
			}
			if err := a.ConfirmOverwrite(output); err != nil {
				return err
			}

			a.Logger.Printf("decoding audio from %s", input)
			data, err := s.DecodeAudioFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Audio (%d bytes) written to %s\n", len(data), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Encoded image")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Decoded audio file (default "+decodedAudioName+")")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
