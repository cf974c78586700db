package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum/internal/cli"
	"github.com/aretw0/plenum/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "plenum",
	Short: "Plenum segments German Bundestag plenary protocols",
	Long: `Plenum splits the plain text of a Bundestag plenary protocol into its
header, agenda, session header, speeches and attachments, and emits them as
structured records.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML or JSON settings file")
	flags.Bool("debug", false, "Log every section and rule to stderr")
	flags.String("store", "", "Store backend: memory, file, loam or redis (overrides STORE_BACKEND)")
	flags.String("store-path", "", "Directory of the file and loam backends (overrides STORE_PATH)")
	flags.String("redis-addr", "", "Redis address (overrides REDIS_ADDR)")
}

// loadConfig reads --config and applies the store flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if flags.Changed("store-path") {
		cfg.Store.Path, _ = flags.GetString("store-path")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
