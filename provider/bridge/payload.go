package bridge

import (
	"encoding/json"

	"github.com/mstgnz/gopos/provider"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorType string          `json:"error_type"`
}

type request struct {
	Action       string            `json:"action"`
	OrderID      string            `json:"order_id"`
	Amount       json.Number       `json:"amount"`
	Currency     string            `json:"currency"`
	CurrencyCode int               `json:"currency_code"`
	Installment  int               `json:"installment"`
	SuccessURL   string            `json:"success_url,omitempty"`
	FailURL      string            `json:"fail_url,omitempty"`
	Lang         string            `json:"lang"`
	IP           string            `json:"ip,omitempty"`
	GatewayURL   string            `json:"gateway_url,omitempty"`
	Card         *cardPayload      `json:"card,omitempty"`
	CallbackData map[string]string `json:"callback_data,omitempty"`
	BankConfig   bankPayload       `json:"bank_config"`
}

type cardPayload struct {
	Number string `json:"number"`
	Year   string `json:"year"`
	Month  string `json:"month"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

type bankPayload struct {
	GatewayType  string             `json:"gateway_type"`
	BankCode     string             `json:"bank_code"`
	PaymentModel string             `json:"payment_model"`
	Environment  string             `json:"environment,omitempty"`
	Lang         string             `json:"lang"`
	Credentials  map[string]string  `json:"credentials"`
	Endpoints    provider.Endpoints `json:"endpoints"`
}

func newRequest(action string, order provider.Order, account provider.Account, environment string, endpoints provider.Endpoints) *request {
	return &request{
		Action:       action,
		OrderID:      order.ID(),
		Amount:       json.Number(order.ChargeAmount().StringFixed(2)),
		Currency:     order.Currency().Alpha(),
		CurrencyCode: int(order.Currency()),
		Installment:  order.Installment(),
		SuccessURL:   order.SuccessURL(),
		FailURL:      order.FailURL(),
		Lang:         order.Lang(),
		IP:           order.IP(),
		BankConfig: bankPayload{
			GatewayType:  account.GatewayType(),
			BankCode:     account.BankCode(),
			PaymentModel: string(account.Model()),
			Environment:  environment,
			Lang:         account.Lang(),
			Credentials:  account.Credentials(),
			Endpoints:    endpoints,
		},
	}
}

func newCardPayload(card provider.Card) *cardPayload {
	return &cardPayload{
		Number: card.Number,
		Year:   card.ExpireYear,
		Month:  card.ExpireMonth,
		CVV:    card.CVV,
		Name:   card.HolderName,
	}
}
