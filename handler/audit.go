package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gopos/infra/logger"
	"github.com/mstgnz/gopos/infra/opensearch"
	"github.com/mstgnz/gopos/infra/response"
)

// AuditReader reads back the transaction log of an order
type AuditReader interface {
	GetOrderTransactions(ctx context.Context, orderID string) ([]opensearch.TransactionLog, error)
}

type AuditHandler struct {
	reader AuditReader
}

func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// OrderLogs handles GET /v1/transactions/{order_id}/logs
func (h *AuditHandler) OrderLogs(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "order_id"))
	if orderID == "" {
		response.Error(w, http.StatusBadRequest, "Request rejected", errors.New("order_id is required"))
		return
	}
	if h.reader == nil {
		response.Error(w, http.StatusServiceUnavailable, "Transaction logging is disabled", opensearch.ErrDisabled)
		return
	}

	logs, err := h.reader.GetOrderTransactions(r.Context(), orderID)
	if errors.Is(err, opensearch.ErrDisabled) {
		response.Error(w, http.StatusServiceUnavailable, "Transaction logging is disabled", err)
		return
	}
	if err != nil {
		logger.Error("order log lookup failed", err, logger.LogContext{Fields: map[string]any{"order_id": orderID}})
		response.Error(w, http.StatusInternalServerError, "Internal error", errors.New("internal error"))
		return
	}
	if logs == nil {
		logs = []opensearch.TransactionLog{}
	}

	response.Success(w, http.StatusOK, "Order transactions", logs)
}
