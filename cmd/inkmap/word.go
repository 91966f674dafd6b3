package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/inkmap/internal/presentation/tui"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/spf13/cobra"
)

var wordCmd = &cobra.Command{
	Use:   "word",
	Short: "Manage persisted word annotations",
}

var wordLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List words with saved coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		words, err := stack.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing words: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(words) == 0 {
			fmt.Fprintln(out, "No annotated words found.")
			return nil
		}
		for _, w := range words {
			fmt.Fprintln(out, "- "+string(w))
		}
		return nil
	},
}

var wordShowCmd = &cobra.Command{
	Use:   "show <word-id>",
	Short: "Show the coordinates of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		wordID := domain.WordID(args[0])
		coords, err := stack.Store.Load(cmd.Context(), wordID)
		if err != nil && !errors.Is(err, domain.ErrWordNotFound) {
			return fmt.Errorf("error loading word '%s': %w", wordID, err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(map[string]any{"coordinates": coords}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		rendered, err := tui.NewRenderer()(tui.CoordinatesMarkdown(wordID, coords))
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

var wordRmCmd = &cobra.Command{
	Use:   "rm <word-id>...",
	Short: "Remove the coordinates of one or more words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		var failed int
		for _, id := range args {
			if err := stack.Store.Delete(cmd.Context(), domain.WordID(id)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed word '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d removals failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wordCmd)
	wordCmd.AddCommand(wordLsCmd)
	wordCmd.AddCommand(wordShowCmd)
	wordCmd.AddCommand(wordRmCmd)

	wordShowCmd.Flags().Bool("json", false, "Print raw JSON instead of a rendered table")
}
