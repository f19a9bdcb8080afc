package service

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fashion-studio/log"
)

const shutdownTimeout = 15 * time.Second

// Start serves handler on host:port in the background. The returned context is
// cancelled once the server has stopped, for whatever reason.
func Start(ctx context.Context, name, host, port string, handler http.Handler) (context.Context, *http.Server) {
	srv := &http.Server{
		Addr:              host + ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		log.L().Info("starting service", zap.String("service", name), zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.L().Error("service stopped", zap.String("service", name), zap.Error(err))
		}
	}()
	return ctx, srv
}

// Run starts the service and blocks until SIGINT/SIGTERM or until the server
// fails, then drains in-flight requests.
func Run(name, host, port string, handler http.Handler) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done, srv := Start(context.Background(), name, host, port, handler)
	select {
	case <-sigCtx.Done():
	case <-done.Done():
		return errors.New(name + " exited unexpectedly")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.L().Info("shutting down", zap.String("service", name))
	return srv.Shutdown(ctx)
}
