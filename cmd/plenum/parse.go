package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum/internal/cli"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a protocol and print the result",
	Long: `Parses a plenary protocol file, or stdin when no file or "-" is given.

Output formats:
- auto (default): pretty on a terminal, json otherwise
- json: the stored document
- markdown: a readable summary
- pretty: the markdown summary rendered for the terminal
- mermaid: the agenda as a Mermaid flowchart`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		input := "-"
		if len(args) == 1 {
			input = args[0]
		}
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")
		id, _ := cmd.Flags().GetString("id")
		debug, _ := cmd.Flags().GetBool("debug")
		width, _ := cmd.Flags().GetInt("width")
		configPath, _ := cmd.Flags().GetString("config")

		return cli.RunParse(cmd.Context(), cli.ParseOptions{
			Input:      input,
			ConfigPath: configPath,
			Format:     format,
			Store:      save,
			ID:         id,
			Debug:      debug,
			Width:      width,
			Out:        cmd.OutOrStdout(),
			Err:        cmd.ErrOrStderr(),
			In:         cmd.InOrStdin(),
			IsTTY:      cli.IsTerminal(os.Stdout),
			Backend:    &cfg.Store,
		})
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("format", "f", cli.FormatAuto, "Output format: auto, json, markdown, pretty or mermaid")
	parseCmd.Flags().Bool("save", false, "Write the document to the configured store")
	parseCmd.Flags().String("id", "", "Fallback document id when the header carries no number")
	parseCmd.Flags().Int("width", 0, "Word wrap of the pretty format")
}
