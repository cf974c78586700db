package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/cli"
	"github.com/aretw0/plenum/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of plenum",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if out == os.Stdout && cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(out, plenum.Version)
		}
		fmt.Fprintf(out, "plenum version %s\n", strings.TrimSpace(plenum.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
