package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/sessiond/internal/config"
	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and inspect sessiond configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, err := logger.New(logger.Config{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}

		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		log.Info("Validating configuration", logger.Field{Key: "path", Value: configPath})

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Error("Failed to load config", err)
			os.Exit(1)
		}

		errors := cfg.Validate()
		if len(errors) > 0 {
			log.Error("Config validation failed", fmt.Errorf("%d errors", len(errors)))
			for _, e := range errors {
				log.Error("Validation error", e)
			}
			os.Exit(1)
		}

		log.Info("Configuration is valid")
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show effective configuration",
	Long:  `Print the effective configuration after defaults and expansion.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("workspace.path: %s\n", cfg.Workspace.Path)
		fmt.Printf("schedule.interval_minutes: %d\n", cfg.Schedule.IntervalMinutes)
		fmt.Printf("schedule.session_timeout_minutes: %d\n", cfg.Schedule.SessionTimeoutMinutes)
		fmt.Printf("schedule.max_steps: %d\n", cfg.Schedule.MaxSteps)
		fmt.Printf("assistant.command: %s\n", cfg.Assistant.Command)
		fmt.Printf("diary.file: %s\n", cfg.Diary.File)
		fmt.Printf("notices.enabled: %t\n", cfg.Notices.Enabled)
		fmt.Printf("logging.output: %s\n", cfg.Logging.Output)
		fmt.Printf("metrics.enabled: %t\n", cfg.Metrics.Enabled)
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
