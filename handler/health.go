package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/mstgnz/gopos/infra/response"
)

// CatalogPinger is the part of the catalog store the health check needs
type CatalogPinger interface {
	Ping(ctx context.Context) error
	BankCount(ctx context.Context) (int, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	catalog     CatalogPinger
	environment string
	gateways    func() []string
	startTime   time.Time
}

// HealthStatus represents overall service health
type HealthStatus struct {
	Status      string         `json:"status"`
	Version     string         `json:"version"`
	Timestamp   time.Time      `json:"timestamp"`
	Uptime      string         `json:"uptime"`
	Environment string         `json:"environment"`
	Catalog     *CatalogHealth `json:"catalog"`
	Gateways    []string       `json:"gateways"`
	GoRoutines  int            `json:"goroutines"`
}

// CatalogHealth represents the catalog store status
type CatalogHealth struct {
	Status       string `json:"status"`
	Connected    bool   `json:"connected"`
	Banks        int    `json:"banks"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog CatalogPinger, environment string, gateways func() []string) *HealthHandler {
	return &HealthHandler{
		catalog:     catalog,
		environment: environment,
		gateways:    gateways,
		startTime:   time.Now(),
	}
}

// CheckHealth reports liveness and the catalog store state
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).String(),
		Environment: h.environment,
		Catalog:     h.checkCatalog(ctx),
		GoRoutines:  runtime.NumGoroutine(),
	}
	if h.gateways != nil {
		health.Gateways = h.gateways()
	}

	health.Status = "healthy"
	statusCode := http.StatusOK
	if health.Catalog.Status == "unhealthy" {
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response.WriteJSON(w, statusCode, response.Response{
		Code:    statusCode,
		Success: statusCode == http.StatusOK,
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

func (h *HealthHandler) checkCatalog(ctx context.Context) *CatalogHealth {
	if h.catalog == nil {
		return &CatalogHealth{Status: "not_configured", Error: "catalog store not configured"}
	}

	start := time.Now()
	ch := &CatalogHealth{}
	if err := h.catalog.Ping(ctx); err != nil {
		ch.Status = "unhealthy"
		ch.Error = err.Error()
		ch.ResponseTime = time.Since(start).String()
		return ch
	}
	ch.Connected = true

	n, err := h.catalog.BankCount(ctx)
	ch.ResponseTime = time.Since(start).String()
	if err != nil {
		ch.Status = "unhealthy"
		ch.Error = err.Error()
		return ch
	}
	ch.Banks = n

	// an empty catalog still serves the built-in BIN table
	ch.Status = "healthy"
	if n == 0 {
		ch.Status = "degraded"
	}
	return ch
}
