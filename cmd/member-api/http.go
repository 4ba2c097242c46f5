// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-member-service/cmd/member-api/service"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-member-service/pkg/log"
)

const shutdownTimeout = 30 * time.Second

// newHandler builds the full middleware chain around the member routes
func newHandler(memberService *service.MemberService) http.Handler {
	mux := goahttp.NewMuxer()
	memberService.Mount(mux)

	var handler http.Handler = mux
	handler = middleware.BodyLimitMiddleware(middleware.DefaultMaxBodyBytes)(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return otelhttp.NewHandler(handler, constants.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// handleHTTPServer starts the HTTP server and shuts it down when ctx is cancelled
func handleHTTPServer(ctx context.Context, addr string, memberService *service.MemberService, wg *sync.WaitGroup, errc chan error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(memberService),
		ReadHeaderTimeout: 60 * time.Second,
	}

	(*wg).Add(1)
	go func() {
		defer (*wg).Done()

		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "HTTP server failed", "error", err, logging.PriorityCritical())
				select {
				case errc <- err:
				default:
				}
			}
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}
