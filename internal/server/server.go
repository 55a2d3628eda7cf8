package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/weblime-studio/fastchain-app/internal/metrics"
	"github.com/weblime-studio/fastchain-app/internal/sale"
)

type Config struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3001"`

	// RequestTimeout bounds one whole request, shared by every ledger call it
	// makes.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SaleService is what the HTTP boundary needs from the transfer flows.
type SaleService interface {
	BuildPurchaseTransaction(ctx context.Context, buyer, solAmount string) (sale.PurchaseTransaction, error)
	SendTokens(ctx context.Context, buyer, tokenAmount string) (solana.Signature, error)
}

type Server struct {
	echo   *echo.Echo
	cfg    Config
	logger *logrus.Logger
}

func New(cfg Config, svc SaleService, logger *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(metrics.HTTPMiddleware())
	e.Use(withLogging(logger))

	h := &handler{
		svc:     svc,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}

	e.POST("/get-transaction", h.getTransaction)
	e.POST("/send-tokens", h.sendTokens)
	e.GET("/healthz", h.healthz)

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

// Start serves until the context is canceled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	s.logger.Infof("listening at http://%s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func withLogging(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"duration":   time.Since(start).String(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Info("handled request")

			return err
		}
	}
}
