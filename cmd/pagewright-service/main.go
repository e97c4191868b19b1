// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/pagewright/pagewright/lib/config"
	"github.com/pagewright/pagewright/lib/generator"
	"github.com/pagewright/pagewright/lib/github"
	"github.com/pagewright/pagewright/lib/llm"
	"github.com/pagewright/pagewright/lib/notifier"
	"github.com/pagewright/pagewright/lib/process"
	"github.com/pagewright/pagewright/lib/publisher"
	"github.com/pagewright/pagewright/lib/service"
	"github.com/pagewright/pagewright/lib/task"
	"github.com/pagewright/pagewright/lib/version"
	"github.com/pagewright/pagewright/lib/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	flagSet := pflag.NewFlagSet("pagewright-service", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to the YAML config file (defaults to $PAGEWRIGHT_CONFIG)")
	listen := flagSet.String("listen", "", "override the listen address from the config")
	showVersion := flagSet.Bool("version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Println("pagewright-service", version.Info())
		return nil
	}

	path := *configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	githubClient, err := github.NewClient(github.Config{
		BaseURL: cfg.GitHubBaseURL,
		Token:   cfg.GitHubToken,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	geminiProvider, err := llm.NewGemini(llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return err
	}

	pipeline := &pipeline{
		generator: generator.New(generator.Config{
			Provider:  geminiProvider,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Logger:    logger,
		}),
		publisher: publisher.New(publisher.Config{
			Client: githubClient,
			Owner:  cfg.GitHubOwner,
			Logger: logger,
		}),
		notifier:    notifier.New(notifier.Config{Logger: logger}),
		scratchRoot: cfg.ScratchDir,
		logger:      logger,
	}

	pool := worker.New(worker.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Logger:    logger,
	})

	handler := newTaskHandler(taskHandlerConfig{
		Secret: cfg.Secret,
		Logger: logger,
		Submit: func(request task.Request) (string, error) {
			return pool.Submit("pipeline/"+request.RepoName(), func(jobCtx context.Context) {
				pipeline.Run(jobCtx, request)
			})
		},
	})

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Listen,
		Handler: handler.routes(),
		Logger:  logger,
	})

	httpDone := make(chan error, 1)
	go func() {
		httpDone <- httpServer.Serve(ctx)
	}()

	select {
	case <-httpServer.Ready():
		logger.Info("service ready", "address", httpServer.Addr().String())
	case err := <-httpDone:
		return err
	case <-ctx.Done():
		// Operator-initiated stop during startup is a clean exit.
		logger.Info("shutdown requested before startup completed")
		return nil
	}

	// Block until shutdown, then drain the pipeline pool so accepted
	// tasks finish their deployments.
	serveErr := <-httpDone

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := pool.Shutdown(drainCtx); err != nil {
		logger.Error("worker pool drain incomplete", "error", err)
	}

	return serveErr
}
