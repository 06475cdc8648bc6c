package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ranaklabs/ranak/internal/config"
	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/gateway"
	"github.com/ranaklabs/ranak/internal/llm"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/session"
	"github.com/ranaklabs/ranak/internal/storage"
)

// NewSessionOptions contains parameters for building a session
type NewSessionOptions struct {
	// Config is the resolved effective configuration.
	Config *config.Config
	// Generator overrides the provider built from Config.Model.
	Generator llm.Generator
	// Recorder receives completed exchanges. Nil disables history.
	Recorder storage.ExchangeSaver
	Logger   *slog.Logger
}

// NewSession wires the provider, gateway, composer and exporter described by
// the configuration into a ready session.
func NewSession(ctx context.Context, opts NewSessionOptions) (*session.Session, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = llm.New(ctx, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	composer, err := prompt.NewComposer(prompt.Templates{
		Subtopics: cfg.Prompts.Subtopics,
		Summarize: cfg.Prompts.Summarize,
	})
	if err != nil {
		return nil, err
	}

	gw := gateway.NewAssistantGateway(gen,
		gateway.WithProvider(cfg.Model.Type),
		gateway.WithSystemMessage(cfg.SystemMessage),
		gateway.WithMaxConsecutiveAutoReply(cfg.MaxConsecutiveAutoReply),
		gateway.WithGenerationParams(cfg.GenerationParams),
		gateway.WithLogger(logger.With("model", cfg.Model.Ref)),
	)

	return session.New(session.Options{
		Gateway:  gw,
		Composer: composer,
		Exporter: export.New(export.Options{
			BaseName:  cfg.Export.BaseName,
			PlainText: cfg.Export.PlainText,
		}),
		Recorder:         opts.Recorder,
		RestoreOnFailure: cfg.RestoreOnFailure,
		Logger:           logger,
	})
}
