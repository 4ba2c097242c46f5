// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the member API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-member-service/cmd/member-api/service"
	internalservice "github.com/linuxfoundation/lfx-v2-member-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-member-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/utils"
)

const defaultPort = "8080"

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	var (
		port = flag.String("p", envPort(), "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	logging.InitStructureLogConfig()

	ctx := context.Background()

	otelConfig := utils.OTelConfigFromEnv()
	otelShutdown, err := utils.SetupOTelSDKWithConfig(ctx, otelConfig)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry SDK", "error", err)
		os.Exit(1)
	}
	defer func() {
		if shutdownErr := otelShutdown(context.Background()); shutdownErr != nil {
			slog.ErrorContext(ctx, "error shutting down OpenTelemetry SDK", "error", shutdownErr)
		}
	}()

	repo := service.MemberRepository(ctx)
	defer func() {
		for _, c := range repo.Closers {
			if errClose := c.Close(); errClose != nil {
				slog.ErrorContext(ctx, "error closing member store", "error", errClose)
			}
		}
		service.CloseNATS()
	}()

	publisher := service.MessagePublisher(ctx)

	reader := internalservice.NewMemberReaderOrchestrator(
		internalservice.WithMemberReader(repo.Store),
	)
	writer := internalservice.NewMemberWriterOrchestrator(
		internalservice.WithMemberWriter(repo.Store),
		internalservice.WithPublisher(publisher),
	)

	memberService := service.NewMemberService(reader, writer, repo.Pingers...)

	// Wait for signal.
	errc := make(chan error, 1)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)

	addr := ":" + *port
	if *bind != "*" {
		addr = *bind + ":" + *port
	}

	handleHTTPServer(ctx, addr, memberService, &wg, errc)

	slog.InfoContext(ctx, "exiting", "service", constants.ServiceName, "reason", <-errc)

	// Send cancellation signal to the goroutines.
	cancel()

	wg.Wait()
	slog.InfoContext(ctx, "exited")
}

func envPort() string {
	if p := os.Getenv(constants.EnvPort); p != "" {
		return p
	}
	return defaultPort
}
