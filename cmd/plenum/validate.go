package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/cli"
	"github.com/aretw0/plenum/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that every section of the given protocols parses",
	Long:  `Parses each file and fails if any section degraded, listing the section and the reason.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cmd.ErrOrStderr(), cfg, debug)
		if err != nil {
			return err
		}
		parser, err := plenum.New(plenum.WithConfig(cfg), plenum.WithLogger(logger))
		if err != nil {
			return err
		}

		var failed []string
		out := cmd.OutOrStdout()
		for _, path := range args {
			record, err := parser.ParseFile(cmd.Context(), path)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", path, err)
				failed = append(failed, path)
				continue
			}
			degraded := record.Degraded()
			if len(degraded) == 0 {
				fmt.Fprintf(out, "%s: ok\n", path)
				continue
			}
			failed = append(failed, path)
			for _, name := range degraded {
				rec, _ := record.Section(name)
				reason := "degraded"
				if empty, ok := rec.(*domain.EmptyRecord); ok && empty.Err() != nil {
					reason = empty.Err().Error()
				}
				fmt.Fprintf(out, "%s: %s: %s\n", path, name, reason)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("validation failed for %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
