package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/internal/cli"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/render"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <script.yaml>",
	Short: "Replay a recorded annotation session",
	Long: `Replays a YAML list of annotation commands (pencil, eraser, color, stroke,
undo, redo, clear, lasso, freehand, vertex, complete, reset, load, save)
against the configured store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		script, err := cli.ParseScript(data)
		if err != nil {
			return err
		}
		if word, _ := cmd.Flags().GetString("word"); word != "" {
			script.WordID = domain.WordID(word)
		}
		if image, _ := cmd.Flags().GetString("image"); image != "" {
			script.Image = image
		}

		cfg, logger, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		out := cmd.OutOrStdout()
		a, capture, err := cli.NewAnnotator(cfg, stack.Store, logger, cli.AnnotatorOptions{
			WordID: script.WordID,
			Image:  script.Image,
			Hooks: domain.Hooks{
				OnSaved: func(_ context.Context, e domain.SaveEvent) {
					fmt.Fprintf(out, "%s (%d points, %s)\n", inkmap.SavedMessage, e.Points, e.Mode)
				},
			},
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if script.Image != "" {
			if err := <-a.LoadImage(ctx); err != nil {
				return fmt.Errorf("failed to load image: %w", err)
			}
		}
		if err := cli.Replay(ctx, script, a, capture); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("snapshot"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := render.EncodePNG(f, a.Snapshot()); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			fmt.Fprintf(out, "Snapshot written to %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().String("word", "", "Word id (overrides the script)")
	traceCmd.Flags().String("image", "", "Reference image path or URL (overrides the script)")
	traceCmd.Flags().String("snapshot", "", "Write the final canvas as PNG to this path")
}
