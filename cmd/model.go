package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ranaklabs/ranak/internal/commands"
	"github.com/ranaklabs/ranak/internal/config"
)

var modelCmd = &cobra.Command{
	Use:     "model",
	Short:   "Inspect configured models",
	Long:    `Show the models defined in the configuration file.`,
	Aliases: []string{"models"},
}

var listModelCmd = &cobra.Command{
	Use:     "list",
	Short:   "List models from configuration",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRawConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		defaultModel := model
		if defaultModel == "" {
			defaultModel = DefaultModel
		}
		return commands.ModelList(cmd.Context(), commands.ModelListOptions{
			Config:       cfg,
			DefaultModel: defaultModel,
			Writer:       os.Stdout,
		})
	},
}

var infoModelCmd = &cobra.Command{
	Use:   "info [ref]",
	Short: "Show model details by ref",
	Example: `# Show model details by ref
ranak model info gpt
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRawConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		name := model
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			name = DefaultModel
		}
		if name == "" {
			name = cfg.Defaults.Model
		}
		return commands.ModelInfo(cmd.Context(), commands.ModelInfoOptions{
			Config:    cfg,
			ModelName: name,
			Writer:    os.Stdout,
		})
	},
}

func init() {
	modelCmd.AddCommand(listModelCmd)
	modelCmd.AddCommand(infoModelCmd)
	rootCmd.AddCommand(modelCmd)
}
