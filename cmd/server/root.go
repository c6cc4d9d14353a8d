package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apod/server/internal/config"
	"apod/server/internal/logger"
)

var (
	version = config.AppVersion
	commit  = ""
	date    = ""
	cfgFile string

	v = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Astronomy Picture of the Day service",
	Long: `apod resolves the Astronomy Picture of the Day for a date, stores it
locally, downloads image entries, and serves them over HTTP.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return readConfigFile()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "./data", "directory for the database and downloaded images")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	_ = v.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func readConfigFile() error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// loadConfig validates configuration and installs the process logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.InitJSON(level)
	} else {
		logger.Init(level)
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("config loaded", "module", "config", "action", "load", "resource", "config", "result", "ok", "path", used)
	}
	return cfg, nil
}
