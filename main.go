// Command hierlens draws scene hierarchies with decorated rows, either as an
// interactive panel or as text and JSON frames.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/decorators"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/output"
	"github.com/ikari-pl/go-scene-hierarchy/internal/scene"
	"github.com/ikari-pl/go-scene-hierarchy/internal/tui"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.ParseFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, nil); err != nil {
		logger.Error("Run failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// newLogger builds the process logger. The interactive panel owns the
// terminal, so without a log file it only logs errors to stderr.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelInfo
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		w = f
		closeLog = func() { _ = f.Close() }
	case cfg.OutputFormat == "tui":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeLog, nil
}

// run opens the scenes and hands them to ui, or renders frames for the
// non-interactive formats. A nil ui builds the terminal panel.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, ui tui.TUI) error {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}
	mode, _ := hierarchy.ParseRestartMode(cfg.Restart)

	repo := scene.NewRepository(logger)
	svc := scene.NewService(logger, repo)
	scenes, err := svc.Open(ctx, cfg.ScenePaths)
	if len(scenes) == 0 {
		if err == nil {
			err = fmt.Errorf("no scenes loaded")
		}
		return err
	}
	if err != nil {
		logger.Warn("Some scenes failed to load", "error", err)
	}

	for _, s := range scenes {
		issues, err := svc.Validate(ctx, s)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			logger.Warn("Scene issue", "scene", s.Name(), "severity", issue.Severity, "message", issue.Message)
		}
	}

	if cfg.OutputFormat == "tui" {
		if ui == nil {
			ui = tui.NewTUI(logger, settings, tui.Options{
				SettingsPath: cfg.SettingsPath,
				Watch:        cfg.Watch,
				Theme:        cfg.Theme,
				Restart:      mode,
				Repository:   repo,
			})
		}
		return ui.Run(ctx, scenes)
	}

	return render(ctx, cfg, logger, settings, mode, scenes)
}

// render writes one frame per scene in the configured output format.
func render(ctx context.Context, cfg *config.Config, logger *slog.Logger, settings *config.Settings, mode hierarchy.RestartMode, scenes []*scene.Scene) error {
	if cfg.Theme != "" {
		cp := *settings
		cp.Theme = cfg.Theme
		settings = &cp
	}

	registry := hierarchy.NewRegistry(logger, hierarchy.WithRestartMode(mode))
	d := hierarchy.NewDispatcher(registry,
		hierarchy.WithLogger(logger),
		hierarchy.WithSettings(settings),
	)
	if err := decorators.Install(d); err != nil {
		return fmt.Errorf("failed to install decorators: %w", err)
	}

	var w io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", cfg.OutputFile, err)
		}
		defer f.Close()
		w = f
	}

	formats := output.NewManager(cfg.Plain || cfg.OutputFile != "")
	for _, s := range scenes {
		frame, err := output.Render(ctx, d, s, output.RenderOptions{Width: cfg.Width})
		if frame == nil {
			return err
		}
		if err != nil {
			logger.Warn("Rows painted with errors", "scene", s.Name(), "error", err)
		}
		if err := formats.Format(ctx, cfg.OutputFormat, frame, w); err != nil {
			return fmt.Errorf("failed to write %s output: %w", cfg.OutputFormat, err)
		}
	}

	if cfg.OutputFile != "" {
		logger.Info("Output written", "file", cfg.OutputFile, "format", cfg.OutputFormat)
	}
	return nil
}
