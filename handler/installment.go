package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gopos/infra/metrics"
	"github.com/mstgnz/gopos/infra/response"
	"github.com/mstgnz/gopos/installment"
	"github.com/shopspring/decimal"
)

// DefaultTestAmount is used by the sample listing when no amount is given
var DefaultTestAmount = decimal.NewFromInt(252)

// InstallmentService answers installment and BIN lookups
type InstallmentService interface {
	Lookup(ctx context.Context, req installment.Request) (*installment.Result, error)
	DetectBIN(ctx context.Context, bin string) (installment.Bank, bool, error)
}

// InstallmentHandler handles installment requests
type InstallmentHandler struct {
	service  InstallmentService
	validate *validator.Validate
}

// NewInstallmentHandler creates a new installment handler
func NewInstallmentHandler(service InstallmentService, validate *validator.Validate) *InstallmentHandler {
	return &InstallmentHandler{
		service:  service,
		validate: validate,
	}
}

// InstallmentRequest is the body of POST /v1/installments
type InstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	BINNumber   string          `json:"bin_number"`
	BankID      int64           `json:"bank_id" validate:"gte=0"`
	CategoryIDs []int64         `json:"category_ids"`
}

// InstallmentResponse is the lookup result
type InstallmentResponse struct {
	Success      bool                           `json:"success"`
	Amount       json.Number                    `json:"amount"`
	Installments []installment.BankInstallments `json:"installments"`
}

// BINResponse is the result of a BIN detection
type BINResponse struct {
	BIN   string           `json:"bin"`
	Bank  installment.Bank `json:"bank"`
	Found bool             `json:"found"`
}

// Lookup handles POST /v1/installments
func (h *InstallmentHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req InstallmentRequest
	if err := decodeRequest(r, h.validate, &req); err != nil {
		writeTransactionError(w, err)
		return
	}

	result, err := h.service.Lookup(r.Context(), installment.Request{
		Amount:      req.Amount,
		BIN:         req.BINNumber,
		BankID:      req.BankID,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	metrics.IncInstallmentLookup(result.Kind)

	response.Success(w, http.StatusOK, "Installment options loaded", InstallmentResponse{
		Success:      true,
		Amount:       money(result.Amount),
		Installments: result.Installments,
	})
}

// DetectBIN handles GET /v1/installments/bin/{bin}
func (h *InstallmentHandler) DetectBIN(w http.ResponseWriter, r *http.Request) {
	bin := chi.URLParam(r, "bin")
	if len(bin) != installment.BINLength || strings.Trim(bin, "0123456789") != "" {
		writeTransactionError(w, installment.ErrInvalidBIN)
		return
	}

	bank, ok, err := h.service.DetectBIN(r.Context(), bin)
	if err != nil {
		writeTransactionError(w, err)
		return
	}
	if !ok {
		response.Error(w, http.StatusNotFound, "Bank not found for BIN", nil)
		return
	}

	response.Success(w, http.StatusOK, "Bank detected", BINResponse{BIN: bin, Bank: bank, Found: true})
}

// Test handles GET /v1/installments/test and returns the fixed sample listing
func (h *InstallmentHandler) Test(w http.ResponseWriter, r *http.Request) {
	amount := DefaultTestAmount
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || !parsed.IsPositive() {
			writeTransactionError(w, installment.ErrInvalidAmount)
			return
		}
		amount = parsed
	}

	response.Success(w, http.StatusOK, "Test installments", InstallmentResponse{
		Success:      true,
		Amount:       money(amount),
		Installments: installment.SampleInstallments(amount),
	})
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
