package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/platform/logger"

	"github.com/labstack/echo/v4"
)

func New(log *logger.Logger, handlers ...RouteRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog(log))
	e.Use(middleware.Recover(log))

	RegisterRoutes(e, handlers...)
	return e
}

// ctx が終わったら graceful に止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("server shutting down")
	return e.Shutdown(shutdownCtx)
}
