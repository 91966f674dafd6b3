package main

import (
	"fmt"
	"image"
	"os"

	"github.com/aretw0/inkmap/pkg/adapters/imagesrc"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/lasso"
	"github.com/aretw0/inkmap/pkg/render"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <word-id>",
	Short: "Render a word's region as PNG",
	Long: `Draws the saved region outline over the reference image. With --crop the
enclosed part of the image is written instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		wordID := domain.WordID(args[0])
		coords, err := stack.Store.Load(cmd.Context(), wordID)
		if err != nil {
			return fmt.Errorf("error loading word '%s': %w", wordID, err)
		}
		points := coords.Points()

		var base image.Image
		if src, _ := cmd.Flags().GetString("image"); src != "" {
			base, err = imagesrc.Resolve(src).Open(cmd.Context())
			if err != nil {
				return err
			}
		}

		var img image.Image
		crop, _ := cmd.Flags().GetBool("crop")
		switch {
		case crop && base == nil:
			return fmt.Errorf("--crop needs --image")
		case crop:
			img = lasso.Crop(base, points, cfg.Limits.CanvasHeight)
			if img == nil {
				return fmt.Errorf("word '%s' has fewer than %d points", wordID, lasso.MinVertices)
			}
		default:
			img = render.Polygon(exportSize(base, points, cfg.Limits.CanvasHeight), base, points, domain.ColorTeal)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = string(wordID) + ".png"
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.EncodePNG(f, img); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", wordID, output)
		return nil
	},
}

// exportSize is the display canvas for base, or the point extent plus a margin without one.
func exportSize(base image.Image, points []domain.Point, height float64) render.Size {
	if base != nil {
		return render.CanvasSize(base.Bounds(), height)
	}
	var size render.Size
	for _, p := range points {
		size.Width = max(size.Width, p.X+10)
		size.Height = max(size.Height, p.Y+10)
	}
	return size
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output PNG path (default <word-id>.png)")
	exportCmd.Flags().String("image", "", "Reference image path or URL")
	exportCmd.Flags().Bool("crop", false, "Write the enclosed image region instead of the outline")
}
