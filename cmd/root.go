package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ranaklabs/ranak/internal/commands"
	"github.com/ranaklabs/ranak/internal/config"
	"github.com/ranaklabs/ranak/internal/session"
	"github.com/ranaklabs/ranak/internal/storage"
	"github.com/ranaklabs/ranak/internal/version"
)

var (
	configPath  string
	model       string
	timeout     string
	temperature float64
	topP        float64
	maxTokens   int
	seed        int64
	historyPath string
	outputDir   string
	logLevel    string

	// DefaultModel holds the model ref used when --model is not given.
	// It is set at process startup from RANAK_MODEL env var (or empty if unset).
	DefaultModel = os.Getenv("RANAK_MODEL")

	logFile *os.File
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ranak",
	Short: "Ranak Research Agent",
	Long: `Ranak is a terminal research assistant. Type a question, get an answer
from the configured model, ask for subtopics or a summary of the latest
answer, and download the result as a Word, CSV or PDF file.

Run without a subcommand to start the interactive view.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Printf("ranak version %s\n", version.Get())
			return nil
		}

		r, err := openResearch(cmd)
		if err != nil {
			return err
		}
		defer r.Close()

		name := r.cfg.Model.DisplayName
		if name == "" {
			name = r.cfg.Model.Ref
		}
		return commands.Interactive(cmd.Context(), commands.InteractiveOptions{
			Session:   r.session,
			OutputDir: r.cfg.Export.Dir,
			ModelName: name,
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Listen for cancellation
	// - in shells for user-initiated interruption SIGINT
	// - in system sent/container environments, SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := rootCmd.ExecuteContext(ctx)
	if logFile != nil {
		logFile.Close()
	}
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default: ./ranak.yaml, then the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model ref from the configuration (overrides RANAK_MODEL)")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "Request timeout duration (e.g. '5m', '30s')")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	rootCmd.PersistentFlags().Float64Var(&topP, "top-p", 0, "Nucleus sampling parameter (0.0 - 1.0)")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", 0, "Maximum number of tokens to generate")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Sampling seed for providers that support it")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "Path of the sqlite transcript history (overrides defaults.historyPath)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory downloads are written to (overrides export.dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error (or RANAK_LOG_LEVEL)")

	rootCmd.Flags().BoolP("version", "v", false, "Print the version number and exit")
}

// setupLogging installs the default slog logger. The interactive view owns
// the terminal, so its logs go to RANAK_LOG_FILE or nowhere.
func setupLogging(cmd *cobra.Command) error {
	name := logLevel
	if !cmd.Flags().Changed("log-level") {
		if env := os.Getenv("RANAK_LOG_LEVEL"); env != "" {
			name = env
		}
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}

	var w io.Writer = os.Stderr
	if !cmd.HasParent() {
		w = io.Discard
		if path := os.Getenv("RANAK_LOG_FILE"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logFile = f
			w = f
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// runtimeOptions collects the command line overrides. Generation parameters
// are only set when the flag was given, so config values are not clobbered by
// flag zero values.
func runtimeOptions(cmd *cobra.Command) config.RuntimeOptions {
	opts := config.RuntimeOptions{
		ModelRef:    model,
		Timeout:     timeout,
		HistoryPath: historyPath,
		OutputDir:   outputDir,
	}
	if opts.ModelRef == "" {
		opts.ModelRef = DefaultModel
	}

	flags := cmd.Flags()
	var params config.GenerationParams
	set := false
	if flags.Changed("temperature") {
		params.Temperature = &temperature
		set = true
	}
	if flags.Changed("top-p") {
		params.TopP = &topP
		set = true
	}
	if flags.Changed("max-tokens") {
		params.MaxTokens = &maxTokens
		set = true
	}
	if flags.Changed("seed") {
		params.Seed = &seed
		set = true
	}
	if set {
		opts.GenParams = &params
	}
	return opts
}

// research bundles a session with the resources it was built on
type research struct {
	cfg     *config.Config
	history *storage.Sqlite
	session *session.Session
}

func openResearch(cmd *cobra.Command) (*research, error) {
	ctx := cmd.Context()
	cfg, err := config.ResolveConfig(configPath, runtimeOptions(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	r := &research{cfg: cfg}
	var recorder storage.ExchangeSaver
	if cfg.HistoryPath != "" {
		db, err := storage.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		r.history = db
		recorder = db
	}

	sess, err := commands.NewSession(ctx, commands.NewSessionOptions{
		Config:   cfg,
		Recorder: recorder,
		Logger:   slog.Default(),
	})
	if err != nil {
		r.Close()
		return nil, err
	}
	r.session = sess
	return r, nil
}

func (r *research) Close() error {
	var errs []error
	if r.session != nil {
		errs = append(errs, r.session.Close())
	}
	if r.history != nil {
		errs = append(errs, r.history.Close())
	}
	return errors.Join(errs...)
}
