package installment

import (
	"slices"
	"strings"
)

// BINLength is the number of leading PAN digits that identify the issuer
const BINLength = 6

// Bank identifies an issuing bank
type Bank struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Color       string `json:"color,omitempty"`
	GatewayType string `json:"gateway_type,omitempty"`
	Active      bool   `json:"-"`
}

// Ref is the short bank form used in installment listings
func (b Bank) Ref() BankRef {
	return BankRef{ID: b.ID, Name: b.Name, Code: b.Code}
}

// BankRef is {id, name, code}
type BankRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// BinEntry maps a 6-digit BIN to its bank
type BinEntry struct {
	BIN  string `json:"bin"`
	Bank Bank   `json:"bank"`
}

var binTable = map[string]Bank{
	"450634": {ID: 1, Name: "Yapı Kredi", Code: "yapikredi", Color: "#005eb8", Active: true},
	"454671": {ID: 2, Name: "İş Bankası", Code: "isbank", Color: "#004b93", Active: true},
	"415514": {ID: 3, Name: "Garanti BBVA", Code: "garanti", Color: "#00a650", Active: true},
	"540667": {ID: 4, Name: "Akbank", Code: "akbank", Color: "#f15a29", Active: true},
	"552608": {ID: 5, Name: "Maximum", Code: "maximum", Color: "#e30613", Active: true},
	"453144": {ID: 6, Name: "Bonus", Code: "bonus", Color: "#ff5a00", Active: true},
	"546001": {ID: 7, Name: "Axess", Code: "axess", Color: "#2a388f", Active: true},
}

// DetectBank looks up the exact 6-digit BIN in the built-in table
func DetectBank(bin string) (Bank, bool) {
	if len(bin) != BINLength || !isDigits(bin) {
		return Bank{}, false
	}
	bank, ok := binTable[bin]
	return bank, ok
}

// BinTable returns a copy of the built-in table ordered by BIN
func BinTable() []BinEntry {
	entries := make([]BinEntry, 0, len(binTable))
	for bin, bank := range binTable {
		entries = append(entries, BinEntry{BIN: bin, Bank: bank})
	}
	slices.SortFunc(entries, func(a, b BinEntry) int {
		return strings.Compare(a.BIN, b.BIN)
	})
	return entries
}

// BINPrefix strips spaces and hyphens from a card number and returns its
// first six digits. ok is false when fewer than six digits are present.
func BINPrefix(cardNumber string) (string, bool) {
	digits := digitsOnly(cardNumber)
	if len(digits) < BINLength {
		return "", false
	}
	return digits[:BINLength], true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
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
