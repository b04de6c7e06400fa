package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orgoj/logemit/internal/config"
	"github.com/orgoj/logemit/internal/logger"
	"github.com/orgoj/logemit/internal/server"
	"github.com/orgoj/logemit/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	// --- Configuration --- //
	configPath := flag.String("config", "", "Path to the configuration file (default: one plain emitter at info)")
	testConfigShort := flag.Bool("t", false, "Test configuration and exit (nginx style)")
	testConfigLong := flag.Bool("test", false, "Test configuration and exit (nginx style)")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	levelName := flag.String("level", "info", "Level of records read from stdin")
	target := flag.String("target", "stdin", "Target of records read from stdin")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.VersionInfo())
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[CRITICAL] Failed to load configuration from '%s': %v\n", *configPath, err)
			return 1
		}
	}

	if *testConfigShort || *testConfigLong {
		fmt.Println(validMessage(*configPath))
		return 0
	}

	defaultLevel, err := logger.ParseLevel(*levelName)
	if err != nil || defaultLevel == logger.Off {
		fmt.Fprintf(os.Stderr, "[CRITICAL] Invalid -level '%s'\n", *levelName)
		return 2
	}

	// Initialize application logger
	appLevel, err := logger.ParseLevel(cfg.AppLog.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Invalid app_log level '%s', using WARN: %v\n", cfg.AppLog.Level, err)
		appLevel = logger.Warn
	}
	if err := logger.InitPlain(appLevel, logger.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "[CRITICAL] Failed to install application logger: %v\n", err)
		return 1
	}
	logger.Infof("logemit", "%s", version.VersionInfo())

	// --- Emitters --- //
	emitter, err := logger.BuildFromConfig(cfg)
	if err != nil {
		if emitter == nil {
			logger.Errorf("logemit", "failed to build emitters: %v", err)
			return 1
		}
		logger.Warnf("logemit", "some emitters failed to initialize: %v", err)
	}
	defer func() {
		if err := emitter.Close(); err != nil {
			logger.Errorf("logemit", "failed to close emitters: %v", err)
		}
	}()
	if len(emitter.Names()) == 0 {
		logger.Errorf("logemit", "no emitter is enabled")
		return 1
	}

	if cfg.Server.Enabled {
		return serve(cfg, emitter)
	}

	n, err := pumpLines(os.Stdin, emitter, defaultLevel, *target)
	emitter.Flush()
	if err != nil {
		logger.Errorf("logemit", "reading stdin failed after %d lines: %v", n, err)
		return 1
	}
	logger.Debugf("logemit", "emitted %d lines", n)
	return 0
}

// serve runs the HTTP ingestion server until SIGINT or SIGTERM.
func serve(cfg *config.Config, emitter logger.Emitter) int {
	srv := server.NewServer(server.Dependencies{
		Config:  cfg,
		Emitter: emitter,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Errorf("logemit", "server error: %v", err)
			return 1
		}
		return 0
	case sig := <-quit:
		logger.Infof("logemit", "received %s, shutting down", sig)
	}

	// The server has 5 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("logemit", "server forced to shutdown: %v", err)
		return 1
	}
	logger.Infof("logemit", "shut down gracefully")
	return 0
}

func validMessage(configPath string) string {
	if configPath == "" {
		return "Default configuration is valid."
	}
	return fmt.Sprintf("Configuration '%s' is valid.", configPath)
}
