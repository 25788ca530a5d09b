package provider

import (
	"fmt"
	"strconv"
)

// StatusApproved is the only status value that counts as success
const StatusApproved = "approved"

// Field name variants seen across the gateways, in lookup order
var (
	statusKeys       = []string{"status", "Status", "response_status"}
	orderIDKeys      = []string{"order_id", "orderId", "OrderId", "OrderID", "oid"}
	authCodeKeys     = []string{"auth_code", "authCode", "AuthCode", "auth_code_value"}
	errorCodeKeys    = []string{"error_code", "errorCode", "ErrorCode", "ErrCode"}
	errorMessageKeys = []string{"error_message", "errorMessage", "ErrorMessage", "ErrMsg", "mdErrorMsg"}
)

// Normalize maps a bank response into a TransactionResult. Success is set
// only when the status is exactly "approved". The raw response is kept as is.
func Normalize(raw RawResponse) TransactionResult {
	status := lookup(raw, statusKeys)
	return TransactionResult{
		Success:      status != nil && *status == StatusApproved,
		OrderID:      lookup(raw, orderIDKeys),
		AuthCode:     lookup(raw, authCodeKeys),
		ErrorCode:    lookup(raw, errorCodeKeys),
		ErrorMessage: lookup(raw, errorMessageKeys),
		Response:     raw,
	}
}

// lookup returns the first non-null value among keys as a string
func lookup(raw RawResponse, keys []string) *string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := stringify(v); ok {
			return &s
		}
	}
	return nil
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}
