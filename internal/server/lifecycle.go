// Package server runs long-lived components of the battle service and
// shuts them down in reverse order on signal or failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component.
type Service interface {
	// Start blocks until the service stops or fails.
	Start() error
	// Stop asks the service to stop and returns once it has, or when ctx expires.
	Stop(ctx context.Context) error
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func(ctx context.Context) error
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn when set.
func (f *FuncService) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// Lifecycle starts registered services together and stops them in reverse
// registration order.
type Lifecycle struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle.
//
// Precondition: logger must be non-nil; shutdownTimeout <= 0 means no per-service deadline.
func NewLifecycle(logger *zap.Logger, shutdownTimeout time.Duration) *Lifecycle {
	return &Lifecycle{logger: logger, shutdownTimeout: shutdownTimeout}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil; Run must not be in progress.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until SIGINT/SIGTERM, ctx
// cancellation, or the first service failure, then stops all services.
//
// Postcondition: every service has been asked to stop. The returned error
// joins the triggering service failure (if any) with any stop failures.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	start := time.Now()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	select {
	case runErr = <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(ctx)))
	}

	stopErr := l.shutdown(services)
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return errors.Join(runErr, stopErr)
}

func (l *Lifecycle) shutdown(services []namedService) error {
	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		ctx := context.Background()
		cancel := context.CancelFunc(func() {})
		if l.shutdownTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, l.shutdownTimeout)
		}
		began := time.Now()
		err := ns.service.Stop(ctx)
		cancel()
		if err != nil {
			l.logger.Warn("service stop failed", zap.String("service", ns.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("stopping %s: %w", ns.name, err))
			continue
		}
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
	return errors.Join(errs...)
}
