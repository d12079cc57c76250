package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        *Config
)

var rootCmd = &cobra.Command{
	Use:           "health-parser",
	Short:         "Parse health data exports into date indexed tables",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		c, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file; the environment is used when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(workerCmd, cleanCmd, parseCmd, datesCmd, workoutsCmd, chartCmd, summaryCmd, statusCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
