package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/calagent/calcom"
	"github.com/hupe1980/calagent/config"
	"github.com/hupe1980/calagent/logging"
)

// rootCmd is the base command for the calagent application.
var rootCmd = &cobra.Command{
	Use:   "calagent",
	Short: "Conversational assistant for Cal.com calendar bookings",
	Long: `calagent is a conversational front-end for a Cal.com account. It can
list, book, and cancel calendar events through natural language, driven by an
LLM with function calling.

It can run as:
  - An interactive chat shell (default)
  - An MCP (Model Context Protocol) server exposing the calendar tools`,
	SilenceUsage: true,
}

// Execute is the main entry point for the CLI application.
func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "calagent version %s\n" .Version}}`)

	// Default to the chat shell when no subcommand is given.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())
}

// loadConfig reads the environment (plus an optional .env file) into the
// application configuration.
func loadConfig(envFile string) (*config.Config, error) {
	cfg, err := config.New[config.Config]("", envFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewSlogLogger(logging.ParseLogLevel(cfg.LogLevel), cfg.LogFormat, false)
}

func newCalClient(cfg *config.Config, logger logging.Logger) (*calcom.Client, error) {
	return calcom.New(calcom.Config{
		APIKey:  cfg.CalAPIKey,
		UserID:  cfg.CalUserID,
		Version: cfg.CalAPIVersion,
		BaseURL: cfg.CalBaseURL,
		Timeout: cfg.RequestTimeout,
	}, func(o *calcom.Options) {
		o.Logger = logger
		o.CacheEventTypes = true
	})
}
