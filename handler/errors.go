package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gopos/infra/response"
	"github.com/mstgnz/gopos/installment"
	"github.com/mstgnz/gopos/provider"
)

// StatusClientClosedRequest is used when the caller went away before the
// bank answered
const StatusClientClosedRequest = 499

// decodeRequest decodes a JSON body into dst and runs struct validation.
// Every failure is returned as a *provider.ValidationError.
func decodeRequest(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return &provider.ValidationError{Scope: "request", Field: "body", Message: "is not valid JSON"}
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &provider.ValidationError{Scope: "request", Field: "body", Message: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *provider.ValidationError {
	msg := fmt.Sprintf("failed the '%s' check", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gt":
		msg = "must be greater than " + fe.Param()
	case "gte":
		msg = "must be at least " + fe.Param()
	case "lte":
		msg = "must be at most " + fe.Param()
	case "len":
		msg = fmt.Sprintf("must be %s characters long", fe.Param())
	case "numeric":
		msg = "must be numeric"
	}
	return &provider.ValidationError{Scope: "request", Field: fe.Field(), Message: msg}
}

// transactionErrorStatus maps the error taxonomy to an HTTP status
func transactionErrorStatus(err error) int {
	var (
		verr  *provider.ValidationError
		gerr  *provider.UnsupportedGatewayError
		aerr  *provider.UnsupportedActionError
		cberr *provider.CallbackVerificationError
		berr  *provider.BankCommunicationError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &gerr), errors.As(err, &aerr),
		errors.Is(err, installment.ErrInvalidAmount), errors.Is(err, installment.ErrInvalidBIN):
		return http.StatusBadRequest
	case errors.As(err, &cberr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, provider.ErrCanceled):
		return StatusClientClosedRequest
	case errors.As(err, &berr):
		if berr.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeTransactionError writes err in the error envelope. Input errors are
// reported verbatim; bank and internal failures get a fixed message so raw
// bank bodies never reach the caller.
func writeTransactionError(w http.ResponseWriter, err error) {
	status := transactionErrorStatus(err)
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		response.Error(w, status, "Request rejected", err)
	case http.StatusBadGateway:
		response.Error(w, status, "Bank communication failed", errors.New("bank communication failed"))
	case http.StatusGatewayTimeout:
		response.Error(w, status, "Bank communication failed", errors.New("bank call timed out"))
	case StatusClientClosedRequest:
		response.Error(w, status, "Request canceled", provider.ErrCanceled)
	default:
		response.Error(w, status, "Internal error", errors.New("internal error"))
	}
}
