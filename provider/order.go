package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxInstallment = 36

// OrderParams holds the input of NewOrder
type OrderParams struct {
	ID          string
	Amount      decimal.Decimal
	Currency    Currency
	Installment int
	// SelectedTotalAmount is the installment-adjusted total, if a plan with
	// interest was chosen. Amount always stays the original principal.
	SelectedTotalAmount *decimal.Decimal
	SuccessURL          string
	FailURL             string
	Lang                string
	IP                  string
}

// Order is the canonical, bank-agnostic order. It is immutable once built.
type Order struct {
	id            string
	amount        decimal.Decimal
	selectedTotal *decimal.Decimal
	currency      Currency
	installment   int
	successURL    string
	failURL       string
	lang          string
	ip            string
}

// NewOrder validates params and builds an Order
func NewOrder(p OrderParams) (Order, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Order{}, missingField("order", "order_id")
	}
	if !p.Amount.IsPositive() {
		return Order{}, invalidField("order", "amount", "must be greater than zero")
	}
	if p.Installment < 0 || p.Installment > maxInstallment {
		return Order{}, invalidField("order", "installment", fmt.Sprintf("must be between 0 and %d", maxInstallment))
	}
	if p.SelectedTotalAmount != nil && p.SelectedTotalAmount.LessThan(p.Amount) {
		return Order{}, invalidField("order", "selected_total_amount", "cannot be less than amount")
	}
	if p.Currency == 0 {
		p.Currency = CurrencyTRY
	}
	if p.Lang == "" {
		p.Lang = "tr"
	}

	o := Order{
		id:          strings.TrimSpace(p.ID),
		amount:      p.Amount,
		currency:    p.Currency,
		installment: p.Installment,
		successURL:  p.SuccessURL,
		failURL:     p.FailURL,
		lang:        p.Lang,
		ip:          p.IP,
	}
	if p.SelectedTotalAmount != nil {
		total := *p.SelectedTotalAmount
		o.selectedTotal = &total
	}
	return o, nil
}

// NewMinimalOrder builds the order used by cancel, refund and status calls
func NewMinimalOrder(id string, amount decimal.Decimal, currency Currency) (Order, error) {
	if strings.TrimSpace(id) == "" {
		return Order{}, missingField("order", "order_id")
	}
	if amount.IsNegative() {
		return Order{}, invalidField("order", "amount", "cannot be negative")
	}
	if currency == 0 {
		currency = CurrencyTRY
	}
	return Order{id: strings.TrimSpace(id), amount: amount, currency: currency, lang: "tr"}, nil
}

func (o Order) ID() string              { return o.id }
func (o Order) Amount() decimal.Decimal { return o.amount }
func (o Order) Currency() Currency      { return o.currency }
func (o Order) Installment() int        { return o.installment }
func (o Order) SuccessURL() string      { return o.successURL }
func (o Order) FailURL() string         { return o.failURL }
func (o Order) Lang() string            { return o.lang }
func (o Order) IP() string              { return o.ip }

// SelectedTotalAmount returns the installment-adjusted total, if any
func (o Order) SelectedTotalAmount() (decimal.Decimal, bool) {
	if o.selectedTotal == nil {
		return decimal.Zero, false
	}
	return *o.selectedTotal, true
}

// ChargeAmount is the amount sent to the bank
func (o Order) ChargeAmount() decimal.Decimal {
	if o.selectedTotal != nil {
		return *o.selectedTotal
	}
	return o.amount
}

// IsZero reports whether the order was never built
func (o Order) IsZero() bool {
	return o.id == ""
}

// Card holds cardholder data for a single orchestration call. It masks
// itself when formatted, marshaled or logged.
type Card struct {
	Number      string
	ExpireMonth string
	ExpireYear  string
	CVV         string
	HolderName  string
}

// NewCard normalizes and validates card input
func NewCard(number, month, year, cvv, holder string) (Card, error) {
	number = strings.NewReplacer(" ", "", "-", "").Replace(number)
	if number == "" {
		return Card{}, missingField("card", "number")
	}
	if !isDigits(number) || len(number) < 12 || len(number) > 19 {
		return Card{}, invalidField("card", "number", "must be 12 to 19 digits")
	}
	if !luhnValid(number) {
		return Card{}, invalidField("card", "number", "failed checksum")
	}

	month = strings.TrimSpace(month)
	if len(month) == 1 {
		month = "0" + month
	}
	if len(month) != 2 || !isDigits(month) || month < "01" || month > "12" {
		return Card{}, invalidField("card", "month", "must be between 01 and 12")
	}

	year = strings.TrimSpace(year)
	if len(year) == 2 && isDigits(year) {
		year = "20" + year
	}
	if len(year) != 4 || !isDigits(year) {
		return Card{}, invalidField("card", "year", "must be a 2 or 4 digit year")
	}

	cvv = strings.TrimSpace(cvv)
	if !isDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
		return Card{}, invalidField("card", "cvv", "must be 3 or 4 digits")
	}

	return Card{
		Number:      number,
		ExpireMonth: month,
		ExpireYear:  year,
		CVV:         cvv,
		HolderName:  strings.TrimSpace(holder),
	}, nil
}

// IsZero reports whether no card data is present
func (c Card) IsZero() bool {
	return c.Number == ""
}

// Masked returns the PAN with all but the first six and last four digits hidden
func (c Card) Masked() string {
	n := len(c.Number)
	if n < 10 {
		return strings.Repeat("*", n)
	}
	return c.Number[:6] + strings.Repeat("*", n-10) + c.Number[n-4:]
}

// Brand detects the card scheme from the leading digits
func (c Card) Brand() string {
	n := c.Number
	switch {
	case strings.HasPrefix(n, "4"):
		return "visa"
	case strings.HasPrefix(n, "34"), strings.HasPrefix(n, "37"):
		return "amex"
	case strings.HasPrefix(n, "9792"), strings.HasPrefix(n, "65"):
		return "troy"
	case len(n) >= 2 && n[:2] >= "51" && n[:2] <= "55":
		return "mastercard"
	case len(n) >= 4 && n[:4] >= "2221" && n[:4] <= "2720":
		return "mastercard"
	default:
		return "unknown"
	}
}

func (c Card) String() string {
	return c.Masked()
}

func (c Card) GoString() string {
	return fmt.Sprintf("provider.Card{Number:%q}", c.Masked())
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"number": c.Masked()})
}

func (c Card) MarshalZerologObject(e *zerolog.Event) {
	e.Str("pan", c.Masked()).Str("brand", c.Brand())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
