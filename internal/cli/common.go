package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mvp-joe/pkghome/internal/config"
)

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext(quiet bool) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			if !quiet {
				fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling...")
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// loadConfig loads configuration for the working directory, letting the
// given flags override config keys.
func loadConfig(flags *pflag.FlagSet, bindings map[string]string) (*config.Config, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	bound := make(map[string]*pflag.Flag, len(bindings))
	for key, name := range bindings {
		if f := flags.Lookup(name); f != nil {
			bound[key] = f
		}
	}

	opts := []config.LoaderOption{config.WithFlags(bound)}
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	cfg, err := config.LoadConfigFromDir(rootDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("configuration loaded",
		slog.String("root", rootDir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("mode", cfg.Output.Mode),
		slog.Int("workers", cfg.Workers))
	return cfg, nil
}
