package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gridwatch/backend/internal/config"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
)

var (
	apiKey    string
	apiSecret string
	logLevel  string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "gridctl",
	Short:         "Inspect Phemex grid bots from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logger.Init(logLevel, "pretty")
		if apiKey == "" {
			apiKey = os.Getenv("PHEMEX_API_KEY")
		}
		if apiSecret == "" {
			apiSecret = os.Getenv("PHEMEX_API_SECRET")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Phemex API key (default $PHEMEX_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "api-secret", "", "Phemex API secret (default $PHEMEX_API_SECRET)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "overall command timeout")

	rootCmd.AddCommand(ladderCmd, reconstructCmd, validateCmd, ordersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func credentials() *phemex.Credentials {
	creds := phemex.Credentials{
		APIKey:    strings.TrimSpace(apiKey),
		APISecret: strings.TrimSpace(apiSecret),
	}
	if creds.IsZero() {
		return nil
	}
	return &creds
}

func requireCredentials() (phemex.Credentials, error) {
	creds := credentials()
	if creds == nil {
		return phemex.Credentials{}, fmt.Errorf("API key and secret are required (flags or PHEMEX_API_KEY/PHEMEX_API_SECRET)")
	}
	return *creds, nil
}

func newExchange() *phemex.Client {
	return phemex.NewClient(config.LoadPhemex().ClientConfig())
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
