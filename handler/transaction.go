package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gopos/infra/middle"
	"github.com/mstgnz/gopos/infra/response"
	"github.com/mstgnz/gopos/provider"
	"github.com/shopspring/decimal"
)

// Actions accepted by POST /v1/transactions
const (
	ActionCreate3DForm      = "create_3d_form"
	ActionProcess3DCallback = "process_3d_callback"
	ActionNonSecurePayment  = "non_secure_payment"
	ActionCancel            = "cancel"
	ActionRefund            = "refund"
	ActionCheckStatus       = "check_status"
)

// Orchestrator executes a transaction against a bank
type Orchestrator interface {
	Execute(ctx context.Context, cfg provider.BankConfig, tx provider.Transaction) (*provider.Outcome, error)
}

// TransactionHandler handles orchestration requests
type TransactionHandler struct {
	orchestrator Orchestrator
	validate     *validator.Validate
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(orchestrator Orchestrator, validate *validator.Validate) *TransactionHandler {
	return &TransactionHandler{
		orchestrator: orchestrator,
		validate:     validate,
	}
}

// CardRequest is the card part of a transaction request
type CardRequest struct {
	Number string `json:"number"`
	Year   string `json:"year"`
	Month  string `json:"month"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// TransactionRequest is the body of POST /v1/transactions
type TransactionRequest struct {
	Action              string              `json:"action" validate:"required"`
	BankConfig          provider.BankConfig `json:"bank_config"`
	TransactionID       string              `json:"transaction_id"`
	OrderID             string              `json:"order_id"`
	Amount              decimal.Decimal     `json:"amount"`
	SelectedTotalAmount *decimal.Decimal    `json:"selected_total_amount,omitempty"`
	Currency            string              `json:"currency"`
	Installment         int                 `json:"installment" validate:"gte=0,lte=36"`
	Card                *CardRequest        `json:"card,omitempty"`
	CallbackData        map[string]string   `json:"callback_data,omitempty"`
	SuccessURL          string              `json:"success_url,omitempty"`
	FailURL             string              `json:"fail_url,omitempty"`
	Lang                string              `json:"lang,omitempty"`
}

// ActionResponse is the result shape of cancel and refund
type ActionResponse struct {
	Success  bool                 `json:"success"`
	Response provider.RawResponse `json:"response"`
}

// FormResponse is the result shape of create_3d_form
type FormResponse struct {
	Success bool               `json:"success"`
	Form    *provider.FormData `json:"form"`
}

// Process handles POST /v1/transactions
func (h *TransactionHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := decodeRequest(r, h.validate, &req); err != nil {
		writeTransactionError(w, err)
		return
	}

	tx, err := req.Transaction(middle.GetClientIP(r))
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	outcome, err := h.orchestrator.Execute(r.Context(), req.BankConfig, tx)
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	switch {
	case outcome.Form != nil:
		response.Success(w, http.StatusOK, "3D form created", FormResponse{Success: true, Form: outcome.Form})
	case outcome.Result == nil:
		writeTransactionError(w, &provider.BankCommunicationError{GatewayType: req.BankConfig.GatewayType, Op: req.Action})
	case outcome.Kind.IsPayment():
		response.Success(w, http.StatusOK, resultMessage(outcome.Result.Success), outcome.Result)
	default:
		response.Success(w, http.StatusOK, resultMessage(outcome.Result.Success), ActionResponse{
			Success:  outcome.Result.Success,
			Response: outcome.Result.Response,
		})
	}
}

func resultMessage(approved bool) string {
	if approved {
		return "Transaction approved"
	}
	return "Transaction declined"
}

// ID returns order_id, falling back to transaction_id
func (req *TransactionRequest) ID() string {
	if id := strings.TrimSpace(req.OrderID); id != "" {
		return id
	}
	return strings.TrimSpace(req.TransactionID)
}

// Transaction builds the tagged transaction for the requested action
func (req *TransactionRequest) Transaction(clientIP string) (provider.Transaction, error) {
	currency := provider.MapCurrency(req.Currency)

	switch req.Action {
	case ActionCreate3DForm, ActionNonSecurePayment:
		order, err := req.order(currency, clientIP)
		if err != nil {
			return nil, err
		}
		card, err := req.card()
		if err != nil {
			return nil, err
		}
		if req.Action == ActionCreate3DForm {
			return provider.Auth3DSInit{Order: order, Card: card}, nil
		}
		return provider.AuthNonSecure{Order: order, Card: card}, nil
	case ActionProcess3DCallback:
		order, err := req.order(currency, clientIP)
		if err != nil {
			return nil, err
		}
		return provider.Auth3DSCallback{Order: order, Payload: req.CallbackData}, nil
	case ActionCancel, ActionRefund, ActionCheckStatus:
		order, err := provider.NewMinimalOrder(req.ID(), req.Amount, currency)
		if err != nil {
			return nil, err
		}
		switch req.Action {
		case ActionCancel:
			return provider.CancelTx{Order: order}, nil
		case ActionRefund:
			return provider.RefundTx{Order: order}, nil
		default:
			return provider.StatusTx{Order: order}, nil
		}
	default:
		return nil, &provider.UnsupportedActionError{Action: req.Action}
	}
}

func (req *TransactionRequest) order(currency provider.Currency, clientIP string) (provider.Order, error) {
	return provider.NewOrder(provider.OrderParams{
		ID:                  req.ID(),
		Amount:              req.Amount,
		Currency:            currency,
		Installment:         req.Installment,
		SelectedTotalAmount: req.SelectedTotalAmount,
		SuccessURL:          req.SuccessURL,
		FailURL:             req.FailURL,
		Lang:                req.Lang,
		IP:                  clientIP,
	})
}

// card returns a zero Card when none was sent; the orchestrator reports it
func (req *TransactionRequest) card() (provider.Card, error) {
	if req.Card == nil {
		return provider.Card{}, nil
	}
	return provider.NewCard(req.Card.Number, req.Card.Month, req.Card.Year, req.Card.CVV, req.Card.Name)
}
