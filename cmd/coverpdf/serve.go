package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/hints"
	"github.com/alnah/go-coverpdf/internal/logger"
	"github.com/alnah/go-coverpdf/internal/server"
)

// runServe starts the HTTP service and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg := server.LoadConfig()
	applyServeFlags(flags, &cfg)

	log := logger.Setup(env.Stderr, cfg.LogLevel, cfg.LogFormat).
		With().Str("version", Version).Logger()

	opts := []coverpdf.Option{coverpdf.WithLogger(log)}
	if flags.templates.disabled {
		opts = append(opts, coverpdf.WithoutTemplates())
	} else {
		src, err := coverpdf.OpenTemplateSource(cfg.Templates)
		if err != nil {
			return withHint(err, hints.ForTemplateSource(cfg.Templates))
		}
		opts = append(opts, coverpdf.WithTemplateSource(src))
	}
	asm := coverpdf.NewAssembler(opts...)

	store, err := server.NewStore(ctx, cfg, log)
	if err != nil {
		return withHint(fmt.Errorf("session store: %w", err), hints.ForRedis())
	}
	defer func() { _ = store.Close() }()

	if err := server.New(cfg, asm, store, log).Run(ctx); err != nil {
		return withHint(err, hints.ForListen())
	}
	return nil
}

// applyServeFlags overrides environment configuration with set flags.
func applyServeFlags(f *serveFlags, cfg *server.Config) {
	if f.addr != "" {
		cfg.Port = f.addr
	}
	if f.templates.source != "" {
		cfg.Templates = f.templates.source
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
}
