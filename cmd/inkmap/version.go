package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/inkmap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inkmap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inkmap version %s\n", strings.TrimSpace(inkmap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
