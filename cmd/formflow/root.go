package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

var version = "dev"

type rootOptions struct {
	cfgFile string
	envFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "formflow",
		Short:         "Furniture catalog forms over HTTP or in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file (default: ./formflow.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().String("api", "", "data API base URL")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = opts.v.BindPFlag("api.base_url", cmd.PersistentFlags().Lookup("api"))
	_ = opts.v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(
		newServeCmd(opts),
		newCreateCmd(opts),
		newEditCmd(opts),
		newRegisterCmd(opts),
	)
	return cmd
}

// load resolves configuration and builds the app. Flags left at their zero
// value do not override file or environment settings.
func (o *rootOptions) load() (*formflow.App, config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Options{
		Viper:   o.v,
		File:    o.cfgFile,
		EnvFile: o.envFile,
	})
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	logger := config.NewLogger(cfg, os.Stderr)
	app, err := formflow.New(cfg, logger)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return app, cfg, logger, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newSession(cmd *cobra.Command) *tui.Session {
	return tui.NewSession(
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithRetryPrompt(true),
	)
}
