package provider

// TransactionKind tags the flow a transaction goes through
type TransactionKind string

const (
	KindAuth3DSInit     TransactionKind = "auth_3ds_init"
	KindAuth3DSCallback TransactionKind = "auth_3ds_callback"
	KindAuthNonSecure   TransactionKind = "auth_non_secure"
	KindCancel          TransactionKind = "cancel"
	KindRefund          TransactionKind = "refund"
	KindStatus          TransactionKind = "status"
)

// IsPayment reports whether results of this kind carry payment fields
// (order id, auth code, error code and message).
func (k TransactionKind) IsPayment() bool {
	switch k {
	case KindAuth3DSCallback, KindAuthNonSecure, KindStatus:
		return true
	}
	return false
}

// Transaction is one of Auth3DSInit, Auth3DSCallback, AuthNonSecure,
// CancelTx, RefundTx or StatusTx. Each carries only what its kind needs.
type Transaction interface {
	Kind() TransactionKind
	order() Order
}

// Auth3DSInit starts a 3-D Secure authorization and yields a form
type Auth3DSInit struct {
	Order Order
	Card  Card
}

// Auth3DSCallback completes a 3-D Secure authorization with the bank callback
type Auth3DSCallback struct {
	Order   Order
	Payload map[string]string
}

// AuthNonSecure charges a card directly without 3-D Secure
type AuthNonSecure struct {
	Order Order
	Card  Card
}

// CancelTx voids a previous authorization
type CancelTx struct {
	Order Order
}

// RefundTx refunds a settled payment
type RefundTx struct {
	Order Order
}

// StatusTx queries the bank for the state of an order
type StatusTx struct {
	Order Order
}

func (Auth3DSInit) Kind() TransactionKind     { return KindAuth3DSInit }
func (Auth3DSCallback) Kind() TransactionKind { return KindAuth3DSCallback }
func (AuthNonSecure) Kind() TransactionKind   { return KindAuthNonSecure }
func (CancelTx) Kind() TransactionKind        { return KindCancel }
func (RefundTx) Kind() TransactionKind        { return KindRefund }
func (StatusTx) Kind() TransactionKind        { return KindStatus }

func (t Auth3DSInit) order() Order     { return t.Order }
func (t Auth3DSCallback) order() Order { return t.Order }
func (t AuthNonSecure) order() Order   { return t.Order }
func (t CancelTx) order() Order        { return t.Order }
func (t RefundTx) order() Order        { return t.Order }
func (t StatusTx) order() Order        { return t.Order }

// validateTransaction checks the fields the kind requires
func validateTransaction(tx Transaction) error {
	if tx == nil {
		return missingField("transaction", "kind")
	}
	if tx.order().IsZero() {
		return missingField(string(tx.Kind()), "order_id")
	}

	switch t := tx.(type) {
	case Auth3DSInit:
		if t.Card.IsZero() {
			return missingField(string(t.Kind()), "card")
		}
		if t.Order.SuccessURL() == "" {
			return missingField(string(t.Kind()), "success_url")
		}
		if t.Order.FailURL() == "" {
			return missingField(string(t.Kind()), "fail_url")
		}
	case AuthNonSecure:
		if t.Card.IsZero() {
			return missingField(string(t.Kind()), "card")
		}
	case Auth3DSCallback:
		if len(t.Payload) == 0 {
			return missingField(string(t.Kind()), "callback_data")
		}
	case RefundTx:
		if !t.Order.Amount().IsPositive() {
			return invalidField(string(t.Kind()), "amount", "must be greater than zero")
		}
	}
	return nil
}
