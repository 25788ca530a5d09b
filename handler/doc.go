// Package handler provides the HTTP handlers of the gopos service.
//
// Bank credentials are never stored: every transaction request carries the
// bank config it should run with. The only persistent data is the installment
// catalog (banks, BINs, installment configs and category restrictions).
//
// # Core Handlers
//
//   - TransactionHandler: runs one bank transaction per request
//   - InstallmentHandler: installment lookup, BIN detection and a sample listing
//   - GatewayHandler: lists gateway schemas and validates bank configs
//   - AuditHandler: reads back the transaction log of an order
//   - HealthHandler: liveness and catalog store check
//
// # Transactions
//
// The action field selects the transaction kind:
//
//	POST /v1/transactions
//	Headers:
//	  Authorization: Bearer your-api-key   (or X-API-Key: your-api-key)
//	  Content-Type: application/json
//
//	Body:
//	{
//	  "action": "non_secure_payment",
//	  "bank_config": {
//	    "gateway_type": "akbank_pos",
//	    "bank_code": "akbank",
//	    "client_id": "merchant-safe-id",
//	    "username": "terminal-safe-id",
//	    "password": "secret-key",
//	    "payment_model": "non_secure"
//	  },
//	  "order_id": "ORD-1001",
//	  "amount": 100.00,
//	  "currency": "TRY",
//	  "installment": 0,
//	  "card": {"number": "4355084355084358", "year": "30", "month": "12", "cvv": "000", "name": "John Doe"}
//	}
//
// Accepted actions are create_3d_form, process_3d_callback,
// non_secure_payment, cancel, refund and check_status. Payment actions answer
// with {success, order_id, auth_code, error_code, error_message, response};
// cancel and refund answer with {success, response}; create_3d_form answers
// with {success, form}. A bank decline is a 200 response with success=false.
//
// # Installments
//
//	POST /v1/installments
//	{"amount": 1000, "bin_number": "450634", "category_ids": [7]}
//
// A known BIN lists that bank's plans. An unknown 6-digit BIN lists every
// active bank with the single payment only. Without a BIN every active bank is
// listed with its full plans.
//
// # Transaction Logs
//
//	GET /v1/transactions/ORD-1001/logs
//
// Lists the audit entries of an order, newest first. Answers 503 when
// OpenSearch logging is disabled.
//
// # Error Handling
//
// Errors use the standard envelope with success=false:
//
//	{
//	  "code": 400,
//	  "success": false,
//	  "message": "Request rejected",
//	  "error": "akbank_pos: field 'client_id' is required"
//	}
//
// Status codes:
//
//   - 400 Bad Request: validation errors, unsupported action or gateway type
//   - 404 Not Found: unknown BIN on the detection endpoint
//   - 401 Unauthorized: missing or wrong API key
//   - 422 Unprocessable Entity: 3-D callback failed integrity verification
//   - 499: the caller went away before the bank answered
//   - 502 Bad Gateway: bank communication failed
//   - 504 Gateway Timeout: bank call timed out
//   - 503 Service Unavailable: catalog down on /health, audit log disabled
//   - 500 Internal Server Error: anything else
package handler
