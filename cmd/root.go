package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cigen/internal/config"
	"cigen/internal/letter"
	"cigen/internal/templatefile"
	"cigen/internal/tmplstore"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cigen",
	Short: "Internal memo (C.I.) generator",
	Long:  "Fills the memo template from a spreadsheet, renders one page image per row and shifts date tables by one month.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cigen")
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix("CIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	setupLogging(appCfg.App.LogLevel)
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}

// baseClassifier builds the classifier described by configuration.
func baseClassifier(cfg config.Config) letter.Classifier {
	c := letter.NewClassifier(cfg.Letter.Markers)
	c.Heuristic = !cfg.Letter.DisableCapsHeuristic
	return c
}

// loadTemplate reads the template from path when given, otherwise from the
// configured store, falling back to the built-in letter.
func loadTemplate(ctx context.Context, cfg config.Config, path string) (string, letter.Classifier, error) {
	base := baseClassifier(cfg)
	if path != "" {
		return templatefile.Load(path, base)
	}
	store, err := tmplstore.Open(cfg)
	if err != nil {
		return "", base, err
	}
	defer store.Close()
	body, saved, err := tmplstore.LoadOrDefault(ctx, store)
	if err != nil {
		return "", base, fmt.Errorf("load saved template: %w", err)
	}
	slog.Debug("template loaded", "backend", cfg.Store.Backend, "saved", saved)
	f, err := templatefile.Parse(strings.NewReader(body))
	if err != nil {
		return "", base, fmt.Errorf("parse saved template: %w", err)
	}
	return f.Body, f.Classifier(base), nil
}
