package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed_RepositoryCatalog(t *testing.T) {
	seed, err := LoadSeed("../../catalog.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, seed.Banks)

	bins := map[string]string{}
	for _, b := range seed.Banks {
		for _, bin := range b.Bins {
			bins[bin.BIN] = b.Code
		}
	}
	assert.Equal(t, "yapikredi", bins["450634"])
	assert.Equal(t, "axess", bins["546001"])
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed("does-not-exist.yaml")
	assert.ErrorContains(t, err, "read seed file")
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"bad_yaml", "banks: [", "parse seed"},
		{"missing_code", "banks:\n  - { id: 1, name: X }", "required"},
		{"duplicate_id", "banks:\n  - { id: 1, name: A, code: a }\n  - { id: 1, name: B, code: b }", "duplicated"},
		{"short_bin", "banks:\n  - { id: 1, name: A, code: a, bins: [{ bin: '4506' }] }", "6 digits"},
		{"count_out_of_range", "banks:\n  - { id: 1, name: A, code: a, installments: [{ count: 40 }] }", "out of range"},
		{"bad_rate", "banks:\n  - { id: 1, name: A, code: a, installments: [{ count: 3, interest_rate: abc }] }", "interest_rate"},
		{"bad_date", "banks:\n  - { id: 1, name: A, code: a, installments: [{ count: 3, campaign_start: '31-12-2026' }] }", "campaign_start"},
		{"min_above_max", "banks:\n  - { id: 1, name: A, code: a, restrictions: [{ category_id: 1, min_installment: 6, max_installment: 3 }] }", "min_installment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
