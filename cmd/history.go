package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ranaklabs/ranak/internal/commands"
	"github.com/ranaklabs/ranak/internal/config"
	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/render"
	"github.com/ranaklabs/ranak/internal/storage"
)

var (
	historySession string
	historyLimit   int
	historyFormats []string
	historyDir     string
)

// historyCmd represents the transcript history command
var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Inspect recorded exchanges",
	Long:    `Inspect the transcript history recorded when defaults.historyPath or --history is set.`,
	Aliases: []string{"hist"},
}

// historySettings loads what the history commands need from the config file.
// A missing config file is fine when --history is given.
func historySettings() (string, config.ExportConfig, error) {
	raw, path, err := config.LoadRawConfigWithPath(configPath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) || historyPath == "" {
			return "", config.ExportConfig{}, err
		}
		raw, path = &config.RawConfig{}, ""
	}

	dbPath, err := config.ResolveHistoryPath(raw.Defaults.HistoryPath, path)
	if historyPath != "" {
		dbPath, err = config.ResolveHistoryPath(historyPath, "")
	}
	if err != nil {
		return "", config.ExportConfig{}, fmt.Errorf("invalid history path: %w", err)
	}
	if dbPath == "" {
		return "", config.ExportConfig{}, errors.New("history is disabled: set defaults.historyPath or pass --history")
	}
	return dbPath, raw.Export, nil
}

func openHistory(cmd *cobra.Command) (*storage.Sqlite, config.ExportConfig, error) {
	dbPath, exportCfg, err := historySettings()
	if err != nil {
		return nil, exportCfg, err
	}
	db, err := storage.Open(cmd.Context(), dbPath)
	if err != nil {
		return nil, exportCfg, fmt.Errorf("failed to open history: %w", err)
	}
	return db, exportCfg, nil
}

var listHistoryCmd = &cobra.Command{
	Use:     "list",
	Short:   "List recorded exchanges, newest first",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryList(cmd.Context(), commands.HistoryListOptions{
			DB:        db,
			SessionID: historySession,
			Limit:     historyLimit,
			Writer:    os.Stdout,
		})
	},
}

var showHistoryCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the prompt and responses of an exchange",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryShow(cmd.Context(), commands.HistoryShowOptions{
			DB:       db,
			ID:       args[0],
			Renderer: render.NewRenderer(),
			Writer:   os.Stdout,
		})
	},
}

var exportHistoryCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write downloads of a recorded exchange",
	Example: `  ranak history export a1b2c3
  ranak history export a1b2c3 --format pdf --dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, exportCfg, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		var formats []export.Format
		for _, name := range historyFormats {
			f, err := export.ParseFormat(name)
			if err != nil {
				return err
			}
			formats = append(formats, f)
		}

		dir := historyDir
		if dir == "" {
			dir = outputDir
		}
		if dir == "" {
			dir = exportCfg.Dir
		}
		if dir == "" {
			dir = "."
		}

		return commands.HistoryExport(cmd.Context(), commands.HistoryExportOptions{
			DB: db,
			ID: args[0],
			Exporter: export.New(export.Options{
				BaseName:  exportCfg.BaseName,
				PlainText: exportCfg.PlainText,
			}),
			Formats: formats,
			Dir:     dir,
			Writer:  os.Stdout,
		})
	},
}

var deleteHistoryCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete one or more recorded exchanges",
	Aliases: []string{"rm", "remove"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryDelete(cmd.Context(), commands.HistoryDeleteOptions{
			DB:        db,
			IDs:       args,
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
		})
	},
}

func init() {
	listHistoryCmd.Flags().StringVar(&historySession, "session", "", "Only list exchanges of this session")
	listHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of exchanges to list (0 for all)")
	exportHistoryCmd.Flags().StringSliceVarP(&historyFormats, "format", "f", nil, "Formats to write: word, csv, pdf (default all)")
	exportHistoryCmd.Flags().StringVarP(&historyDir, "dir", "d", "", "Directory to write to (default --output-dir, then export.dir)")

	historyCmd.AddCommand(listHistoryCmd)
	historyCmd.AddCommand(showHistoryCmd)
	historyCmd.AddCommand(exportHistoryCmd)
	historyCmd.AddCommand(deleteHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
