package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/tracing"
)

var cfgFile string
var logLevel string
var traceSpans bool
var appConfig config.Config

// stopTracing flushes exported spans; nil unless --trace is set.
var stopTracing func(context.Context) error

var rootCmd = &cobra.Command{
	Use:   "labsite",
	Short: "labsite - static lab website assembler",
	Long: `labsite fills the placeholders of a lab website's pages with its people,
publications, research, hero and about data, and writes fully populated
static pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return err
		}
		return initializeTracing(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stopTracing == nil {
			return nil
		}
		return stopTracing(context.Background())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "write a span per loader run to stderr as JSON")
}

// setDefaults registers every default so environment variables can override
// keys that are absent from the config file.
func setDefaults(v *viper.Viper) {
	d := config.Default()

	v.SetDefault("siteTitle", d.SiteTitle)
	v.SetDefault("baseURL", d.BaseURL)
	v.SetDefault("contentDir", d.ContentDir)
	v.SetDefault("layoutsDir", d.LayoutsDir)
	v.SetDefault("staticDir", d.StaticDir)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("roles", d.Roles)
	v.SetDefault("placeholders", d.Placeholders)
	v.SetDefault("assets.people", d.Assets.People)
	v.SetDefault("assets.publications", d.Assets.Publications)
	v.SetDefault("assets.research", d.Assets.Research)
	v.SetDefault("assets.hero", d.Assets.Hero)
	v.SetDefault("people.pageSize", d.People.PageSize)
	v.SetDefault("people.singleColumn", d.People.SingleColumn)
	v.SetDefault("hero.interval", d.Hero.Interval)
	v.SetDefault("fetch.userAgent", d.Fetch.UserAgent)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("serve.port", d.Serve.Port)
	v.SetDefault("serve.rateLimit", d.Serve.RateLimit)
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LABSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("port"); f != nil {
		if err := v.BindPFlag("serve.port", f); err != nil {
			return fmt.Errorf("failed to bind port flag: %w", err)
		}
	}

	configSource := "defaults"
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configSource = v.ConfigFileUsed()
	}

	appConfig = config.Config{}
	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if logLevel != "" {
		appConfig.LogLevel = logLevel
	}

	if err := appConfig.Validate(); err != nil {
		return err
	}

	log := logger.NewLogger(appConfig.LogLevel)
	log.Debug("configuration loaded", "source", configSource, "config", appConfig.String())
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return nil
}

func initializeTracing(cmd *cobra.Command) error {
	if !traceSpans {
		return nil
	}
	stop, err := tracing.Setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	stopTracing = stop
	return nil
}
