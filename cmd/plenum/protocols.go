package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum/internal/cli"
	"github.com/aretw0/plenum/pkg/ports"
)

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "Manage stored protocols",
	Long:  `List, inspect, and remove protocols kept by the configured store.`,
}

var protocolsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored protocol ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		ids, err := b.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing protocols: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No stored protocols found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var protocolsInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Print a stored protocol as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		doc, err := b.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading protocol '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var protocolsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove one or more stored protocols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		deleter, ok := b.Store.(ports.ProtocolDeleter)
		if !ok {
			return fmt.Errorf("the configured store cannot remove protocols")
		}
		var failed int
		for _, id := range args {
			if err := deleter.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed protocol '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d protocols could not be removed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(protocolsCmd)
	protocolsCmd.AddCommand(protocolsLsCmd)
	protocolsCmd.AddCommand(protocolsInspectCmd)
	protocolsCmd.AddCommand(protocolsRmCmd)
}

func openBackend(cmd *cobra.Command) (*cli.Backend, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.OpenBackend(cmd.Context(), cfg.Store)
}
