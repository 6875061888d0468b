package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/sessiond/internal/compose"
	"github.com/aatumaykin/sessiond/internal/config"
	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/diary"
	"github.com/aatumaykin/sessiond/internal/logger"
	"github.com/aatumaykin/sessiond/internal/metrics"
	"github.com/aatumaykin/sessiond/internal/notices"
	"github.com/aatumaykin/sessiond/internal/runner"
	"github.com/aatumaykin/sessiond/internal/scheduler"
	"github.com/aatumaykin/sessiond/internal/workspace"
)

var (
	runConfigPath string
	runLogLevel   string
	runOnce       bool
	runMessage    string
	runInterval   int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the session-cycle scheduler (main command)",
	Long: `Start the session-cycle scheduler with the specified configuration.
In continuous mode the first session runs immediately and a new one starts
every interval until interrupted. With --once exactly one session is
performed and the process exits.`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	// Determine config path. The default config file is optional; an
	// explicitly given one is not.
	configPath := runConfigPath
	var cfg *config.Config
	var err error
	if configPath == "" {
		configPath = constants.DefaultConfigPath
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			cfg = config.Default()
		}
	}
	if cfg == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Printf("❌ Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
	}

	// Flag overrides
	if runLogLevel != "" {
		cfg.Logging.Level = runLogLevel
	}
	if runInterval > 0 {
		cfg.Schedule.IntervalMinutes = runInterval
	}
	if runMessage != "" {
		cfg.Schedule.Annotation = runMessage
	}

	// Validate configuration
	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting sessiond",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "workspace", Value: cfg.Workspace.Path},
		logger.Field{Key: "interval_minutes", Value: cfg.Schedule.IntervalMinutes},
		logger.Field{Key: "session_timeout_minutes", Value: cfg.Schedule.SessionTimeoutMinutes},
		logger.Field{Key: "steps_per_cycle", Value: cfg.Schedule.MaxSteps},
	)

	// Initialize workspace
	ws := workspace.New(cfg.Workspace)
	if err := ws.EnsureDir(); err != nil {
		log.Error("Failed to create workspace directory", err)
		os.Exit(1)
	}
	for _, sub := range []string{constants.SubdirMemory, constants.SubdirInbox, constants.SubdirLogs} {
		if err := ws.EnsureSubpath(sub); err != nil {
			log.Error("Failed to create workspace subdirectory", err,
				logger.Field{Key: "subdir", Value: sub})
			os.Exit(1)
		}
	}

	// Load message template
	tpl, err := compose.LoadTemplate(ws.Resolve(cfg.Compose.TemplateFile))
	if err != nil {
		log.Error("Failed to load message template", err)
		os.Exit(1)
	}
	composer := compose.New(tpl, cfg.Schedule.Annotation)

	// Assistant process runner
	workingDir := cfg.Assistant.WorkingDir
	if workingDir == "" {
		workingDir = ws.Path()
	}
	sessionRunner := runner.New(runner.Config{
		Command:        cfg.Assistant.Command,
		Args:           cfg.Assistant.Args,
		ContinueFlag:   cfg.Assistant.ContinueFlag,
		TimeoutCommand: cfg.Assistant.TimeoutCommand,
		WorkingDir:     workingDir,
	}, log)

	// Collaborators, both best-effort
	diaryChecker := diary.NewChecker(ws.Resolve(cfg.Diary.File), log)
	var noticeSource scheduler.NoticeSource
	if cfg.Notices.Enabled {
		noticeSource = notices.NewFileSource(ws.Resolve(cfg.Notices.File), log)
		log.Info("✅ Notices collaborator enabled",
			logger.Field{Key: "file", Value: ws.Resolve(cfg.Notices.File)})
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics
	m := metrics.Init("sessiond", nil)
	if cfg.Metrics.Enabled {
		go metrics.Serve(ctx, cfg.Metrics.Listen, log)
	}

	sched, err := scheduler.New(scheduler.Config{
		IntervalMinutes: cfg.Schedule.IntervalMinutes,
		SessionTimeout:  time.Duration(cfg.Schedule.SessionTimeoutMinutes) * time.Minute,
		MaxSteps:        cfg.Schedule.MaxSteps,
		Composer:        composer,
		Runner:          sessionRunner,
		Diary:           diaryChecker,
		Notices:         noticeSource,
		Logger:          log,
		Metrics:         m,
	})
	if err != nil {
		log.Error("Failed to initialize scheduler", err)
		os.Exit(1)
	}

	if runOnce {
		log.Info("Running single session (--once)")
		sched.RunOnce(ctx)
		log.Info("👋 sessiond finished")
		return
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("⏳ Received shutdown signal",
			logger.Field{Key: "signal", Value: sig.String()})
		cancel()
	}()

	if err := sched.Start(ctx); err != nil {
		log.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	log.Info("👋 sessiond stopped gracefully")
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	runCmd.Flags().StringVarP(&runLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single session and exit")
	runCmd.Flags().StringVarP(&runMessage, "message", "m", "", "Free-text annotation appended to every session message")
	runCmd.Flags().IntVar(&runInterval, "interval", 0, "Override session interval in minutes")
}
