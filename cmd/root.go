package cmd

import (
	"fmt"
	"os"

	"github.com/poornesh-v09/Milk-Management/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "milk-management",
	Short: "Dairy delivery management service",
	Long: `Milk Management runs the REST API and background workers for a dairy
delivery business: customer subscriptions, delivery assignments, daily
attendance, pricing and monthly billing reports.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real deployments set the environment directly
		_ = godotenv.Load()

		setupLogging()

		if err := config.InitConfig(cfgFile); err != nil {
			log.Fatal().Err(err).Msg("Error initializing configuration")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, console)")
}

// setupLogging configures the global logger based on command line flags
func setupLogging() {
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if logFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
