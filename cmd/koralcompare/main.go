package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/KorAP/Koral-TreeCompare/config"
	"github.com/KorAP/Koral-TreeCompare/tester"
	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxInputLength = 4 * 1024 * 1024 // 4MB
)

type sourceFlags struct {
	Config   string   `kong:"short='c',help='YAML suite file containing test cases and global settings'"`
	Cases    []string `kong:"short='s',help='Individual YAML case files to load (supports glob patterns like dir/*.yaml)'"`
	LogLevel *string  `kong:"short='l',help='Log level (debug, info, warn, error)'"`
}

type runCmd struct {
	sourceFlags
	CaseInsensitive bool `kong:"short='i',help='Compare attribute values case insensitively'"`
	Workers         *int `kong:"short='w',help='Number of test cases evaluated concurrently'"`
}

type serveCmd struct {
	sourceFlags
	Port *int `kong:"short='p',help='Port to listen on'"`
}

type appConfig struct {
	Run   runCmd   `kong:"cmd,help='Run a test suite and print the summary'"`
	Serve serveCmd `kong:"cmd,help='Serve comparisons over HTTP'"`
}

func setupLogger(level string) {
	// Parse log level
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Error().Err(err).Str("level", level).Msg("Invalid log level, defaulting to info")
		lvl = zerolog.InfoLevel
	}

	// Configure zerolog
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadSuite loads the configuration and applies the log level
func (f *sourceFlags) loadSuite() (*config.SuiteConfig, error) {
	if f.Config == "" && len(f.Cases) == 0 {
		return nil, fmt.Errorf("at least one configuration source must be provided: use -c for a suite file or -s for case files")
	}

	expanded, err := expandGlobs(f.Cases)
	if err != nil {
		return nil, err
	}

	suite, err := config.LoadFromSources(f.Config, expanded)
	if err != nil {
		return nil, err
	}

	if f.LogLevel != nil {
		suite.LogLevel = *f.LogLevel
	}
	setupLogger(suite.LogLevel)

	return suite, nil
}

func (cmd *runCmd) Run() error {
	suite, err := cmd.loadSuite()
	if err != nil {
		return err
	}

	if cmd.CaseInsensitive {
		sensitive := false
		suite.CaseSensitive = &sensitive
	}
	if cmd.Workers != nil {
		suite.Workers = *cmd.Workers
		config.ApplyDefaults(suite)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := tester.NewRunner(tester.FileSource{}, tester.NewLogSink(log.Logger), suite)
	run, err := runner.Run(ctx, suite.Cases)
	if err != nil {
		return err
	}

	for _, line := range run.Report.Lines() {
		fmt.Println(line)
	}
	fmt.Printf("Passed: %d, Failed: %d\n", run.Passed, run.Failed)

	// Cases failing on unreadable input count nothing, so the
	// summary alone may still be error free
	if run.Failed > 0 || !run.ErrorFree {
		return fmt.Errorf("%d of %d test cases failed", run.Failed, len(run.Cases))
	}
	return nil
}

func (cmd *serveCmd) Run() error {
	suite, err := cmd.loadSuite()
	if err != nil {
		return err
	}

	port := suite.Port
	if cmd.Port != nil {
		port = *cmd.Port
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxInputLength,
	})
	app.Use(setupFiberLogger())
	setupRoutes(app, suite)

	go func() {
		log.Info().Int("port", port).Int("cases", len(suite.Cases)).Msg("Starting server")
		fmt.Printf("Starting server port=%d\n", port)

		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	log.Info().Msg("Shutting down server")
	return app.ShutdownWithTimeout(5 * time.Second)
}

func main() {
	cfg := &appConfig{}

	desc := config.Description
	desc += " [" + config.Version + "]"

	ctx := kong.Parse(cfg,
		kong.Name("koralcompare"),
		kong.Description(desc),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		log.Error().Err(err).Msg("Failed")
		os.Exit(1)
	}
}

// expandGlobs expands glob patterns in the slice of file paths
// Returns the expanded list of files or an error if glob expansion fails
func expandGlobs(patterns []string) ([]string, error) {
	var expanded []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand glob pattern '%s': %w", pattern, err)
		}

		// If no matches found, treat as literal filename (consistent with shell behavior)
		if len(matches) == 0 {
			log.Warn().Str("pattern", pattern).Msg("Glob pattern matched no files, treating as literal filename")
			expanded = append(expanded, pattern)
		} else {
			expanded = append(expanded, matches...)
		}
	}

	return expanded, nil
}
