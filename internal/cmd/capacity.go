package cmd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/hidepix"
	"github.com/yyyoichi/hidepix/internal/app"
)

func newCapacityCommand(a *app.App) *cobra.Command {
	var (
		input         string
		width, height int
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show how much an image can hide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var bounds image.Rectangle
			switch {
			case input != "":
				if err := a.CheckImage(input); err != nil {
					return err
				}
				img, err := hidepix.Load(input)
				if err != nil {
					return err
				}
				bounds = img.Bounds()
			case width > 0 && height > 0:
				bounds = image.Rect(0, 0, width, height)
			default:
				return errors.New("provide --input or a positive --width and --height")
			}

			c := hidepix.CapacityOf(bounds)
			if asJSON {
				return a.PrintJSON(c)
			}
			w := app.NewTabWriter(a.OutWriter)
			fmt.Fprintf(w, "Resolution:\t%dx%d\n", c.Width, c.Height)
			fmt.Fprintf(w, "Storage:\t%.2f MB (%d bytes, %d bits)\n", c.MB, c.Bytes, c.Bits)
			fmt.Fprintf(w, "Text:\t%d characters\n", c.TextChars)
			fmt.Fprintf(w, "Audio duration:\t%.1f - %.1f minutes\n", c.MinMinutes, c.MaxMinutes)
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Carrier image")
	cmd.Flags().IntVar(&width, "width", 0, "Carrier width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Carrier height in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.MarkFlagsMutuallyExclusive("input", "width")
	cmd.MarkFlagsMutuallyExclusive("input", "height")
	return cmd
}

func newBlankCommand(a *app.App) *cobra.Command {
	var (
		width, height int
		hex, output   string
	)
	cmd := &cobra.Command{
		Use:   "blank",
		Short: "Create a uniform carrier image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid size %dx%d", width, height)
			}
			c, err := parseColor(hex)
			if err != nil {
				return err
			}
			format, err := hidepix.FormatFromPath(output)
			if err != nil {
				return err
			}
			if err := a.ConfirmOverwrite(output); err != nil {
				return err
			}

			a.Logger.Printf("creating %dx%d carrier", width, height)
			if err := hidepix.Save(output, hidepix.Blank(width, height, c), format); err != nil {
				return err
			}
			capacity := hidepix.CapacityOf(image.Rect(0, 0, width, height))
			fmt.Fprintf(a.OutWriter, "Image saved to %s, storage capacity %.2f MB (%d bytes)\n", output, capacity.MB, capacity.Bytes)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Height in pixels")
	cmd.Flags().StringVar(&hex, "color", "ffffff", "Fill color as RRGGBB")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image, the extension selects the format")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func parseColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, want RRGGBB", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
