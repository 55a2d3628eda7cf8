package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/weblime-studio/fastchain-app/internal/sale"
)

type handler struct {
	svc     SaleService
	timeout time.Duration
	logger  *logrus.Logger
}

type getTransactionRequest struct {
	Buyer     string `json:"buyer"`
	SolAmount string `json:"solAmount"`
}

type getTransactionResponse struct {
	Transaction     string `json:"transaction"`
	RecentBlockhash string `json:"recentBlockhash"`
}

type sendTokensRequest struct {
	Buyer       string `json:"buyer"`
	TokenAmount string `json:"tokenAmount"`
}

type sendTokensResponse struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *handler) getTransaction(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req getTransactionRequest
	if err := c.Bind(&req); err != nil {
		return h.writeError(c, fmt.Errorf("%w: %v", sale.ErrInvalidInput, err))
	}

	out, err := h.svc.BuildPurchaseTransaction(ctx, req.Buyer, req.SolAmount)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, getTransactionResponse{
		Transaction:     out.Transaction,
		RecentBlockhash: out.RecentBlockhash,
	})
}

func (h *handler) sendTokens(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req sendTokensRequest
	if err := c.Bind(&req); err != nil {
		return h.writeError(c, fmt.Errorf("%w: %v", sale.ErrInvalidInput, err))
	}

	sig, err := h.svc.SendTokens(ctx, req.Buyer, req.TokenAmount)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, sendTokensResponse{
		Success:   true,
		Signature: sig.String(),
	})
}

func (h *handler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// writeError is the single place service errors become HTTP responses. Every
// failure maps to a flat 500 payload for parity with the original backend;
// splitting client errors into 4xx happens here if that ever changes.
func (h *handler) writeError(c echo.Context, err error) error {
	h.logger.WithFields(logrus.Fields{
		"path":  c.Request().URL.Path,
		"error": err.Error(),
	}).Error("request failed")

	return c.JSON(http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   err.Error(),
	})
}
