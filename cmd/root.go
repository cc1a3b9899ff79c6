package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/webdiner/internal/logging"
	"github.com/chrisdamba/webdiner/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "webdiner",
	Short: "Corporate meal ordering service",
	Long: `webdiner runs the lunch ordering API for employees and administrators:
per-day vendor menus, a daily order cutoff, monthly batch ordering and the
administrative reports built on top of them.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.webdiner.yaml)")
	rootCmd.PersistentFlags().String("storage", "postgres", "Storage backend: postgres or memory")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection URL")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")

	viper.BindPFlag("storage", rootCmd.PersistentFlags().Lookup("storage"))
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".webdiner")
	}
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig() (*models.Config, zerolog.Logger, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("error loading config: %w", err)
	}
	logger, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("using config file")
	}
	return cfg, logger, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
