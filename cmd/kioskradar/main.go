/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/kioskradar/pkg/bot"
	"github.com/carverauto/kioskradar/pkg/config"
	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/ops"
	"github.com/carverauto/kioskradar/pkg/treestore"
	"github.com/carverauto/kioskradar/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "Path to the kioskradar config file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("kioskradar " + version.Full())

		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "kioskradar: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info().Str("version", version.Full()).Msg("Starting kioskradar")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
	}()

	store, err := treestore.Open(ctx, &cfg.Store, log)
	if err != nil {
		return fmt.Errorf("failed to open tree store: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close tree store")
		}
	}()

	if cfg.Ops.ListenAddr != "" {
		opsServer := ops.NewServer(cfg.Ops.ListenAddr, store, log)

		go func() {
			if opsErr := opsServer.Run(ctx); opsErr != nil {
				log.Error().Err(opsErr).Msg("Ops server stopped")
			}
		}()
	}

	service, err := bot.New(cfg.Telegram.Token, cfg.Telegram.OwnerID, store, log)
	if err != nil {
		return fmt.Errorf("failed to start telegram bot: %w", err)
	}

	return service.Run(ctx)
}
