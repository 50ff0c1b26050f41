// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tieout CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/tieout/internal/secrets"
	"github.com/pdiddy/tieout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in PersistentPreRunE from --verbose.
var logger = zap.NewNop()

// rootCmd is the base command for the tieout CLI.
var rootCmd = &cobra.Command{
	Use:   "tieout",
	Short: "Cap table tie-out analysis for startup legal documents",
	Long: `tieout reads startup capitalization documents (charters, stock purchase
agreements, option grants, warrants, convertible instruments, cap tables,
409A valuations and board consents), extracts their key terms with a
language model, checks them against a due-diligence checklist and writes
a tie-out report.

Run "tieout analyze --sample" for a demonstration with bundled documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("secrets.loaded", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tieout.yaml or ~/.config/tieout/tieout.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging on stderr")

	viper.SetDefault("ai.provider", types.DefaultProvider)
	viper.SetDefault("ai.model", types.DefaultModel)
	viper.SetDefault("ai.max_retries", types.DefaultMaxRetries)
	viper.SetDefault("ai.call_timeout", types.DefaultCallTimeout)
	viper.SetDefault("ai.requests_per_second", 0)
	viper.SetDefault("ai.max_tokens", types.DefaultMaxTokens)
	viper.SetDefault("ai.temperature", types.DefaultTemperature)
	viper.SetDefault("extraction.max_chars", types.DefaultMaxChars)
	viper.SetDefault("extraction.concurrency", types.DefaultConcurrency)
	viper.SetDefault("report.output_dir", types.DefaultOutputDir)
	viper.SetDefault("report.formats", []string{"markdown", "json"})
	viper.SetDefault("checklist.file", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tieout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tieout"))
		}
	}

	viper.SetEnvPrefix("TIEOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger on stderr at warn level, or debug when
// verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !verbose
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// pipelineConfig assembles the configuration from viper and the loaded
// secrets.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		AI: types.AIConfig{
			Provider:          viper.GetString("ai.provider"),
			Model:             viper.GetString("ai.model"),
			APIKey:            viper.GetString("ai.api_key"),
			BaseURL:           viper.GetString("ai.base_url"),
			MaxRetries:        viper.GetInt("ai.max_retries"),
			CallTimeout:       viper.GetDuration("ai.call_timeout"),
			RequestsPerSecond: viper.GetFloat64("ai.requests_per_second"),
			MaxTokens:         viper.GetInt("ai.max_tokens"),
			Temperature:       viper.GetFloat64("ai.temperature"),
		},
		Extraction: types.ExtractionConfig{
			MaxChars:    viper.GetInt("extraction.max_chars"),
			Concurrency: viper.GetInt("extraction.concurrency"),
		},
		Report: types.ReportConfig{
			OutputDir: viper.GetString("report.output_dir"),
			Formats:   viper.GetStringSlice("report.formats"),
		},
		Checklist: types.ChecklistConfig{
			File: viper.GetString("checklist.file"),
		},
	}

	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case types.ProviderOpenAI:
			cfg.AI.APIKey = secrets.Lookup(loadedSecrets, secrets.OpenAIKeyFile, secrets.OpenAIKeyEnv)
		case types.ProviderAnthropic, "":
			cfg.AI.APIKey = secrets.Lookup(loadedSecrets, secrets.AnthropicKeyFile, secrets.AnthropicKeyEnv)
		}
	}
	return cfg.WithDefaults()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
