package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mstgnz/gopos/infra/config"
	"github.com/mstgnz/gopos/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayHandler_List(t *testing.T) {
	h := NewGatewayHandler(provider.DefaultRegistry, config.App().Validator)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/v1/gateways", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var schemas []GatewaySchema
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &schemas))

	var types []string
	for _, s := range schemas {
		types = append(types, s.GatewayType)
		assert.NotEmpty(t, s.Fields, s.GatewayType)
	}
	assert.Equal(t, []string{
		"akbank_pos", "estv3_pos", "garanti_pos", "interpos", "kuveyt_pos",
		"payflex_common", "payflex_mpi", "payfor", "posnet",
	}, types)
}

func TestGatewayHandler_Validate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantMissing []string
	}{
		{
			name: "complete_3d_secure",
			body: `{"gateway_type": "estv3_pos", "bank_code": "isbank", "client_id": "700655000200", "username": "ISBANKAPI",
				"password": "ISBANK07", "store_key": "TRPS0200", "payment_model": "3d_secure",
				"endpoints": {"gateway_3d": "https://bank.test/fim/est3Dgate"}}`,
			wantSuccess: true,
			wantMissing: []string{},
		},
		{
			name: "3d_host_needs_host_endpoint",
			body: `{"gateway_type": "estv3_pos", "bank_code": "isbank", "client_id": "700655000200", "username": "ISBANKAPI",
				"password": "ISBANK07", "payment_model": "3d_host", "endpoints": {"gateway_3d": "https://bank.test/3d"}}`,
			wantMissing: []string{"store_key", "gateway_3d_host"},
		},
		{
			name:        "empty_model_defaults_to_3d_secure",
			body:        `{"gateway_type": "estv3_pos", "bank_code": "isbank"}`,
			wantMissing: []string{"client_id", "username", "password", "payment_model", "store_key", "gateway_3d"},
		},
		{
			name:        "non_secure_needs_no_endpoint",
			body:        `{"gateway_type": "akbank_pos", "bank_code": "akbank", "client_id": "M", "username": "T", "password": "S", "payment_model": "non_secure"}`,
			wantSuccess: true,
			wantMissing: []string{},
		},
	}

	h := NewGatewayHandler(provider.DefaultRegistry, config.App().Validator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/gateways/validate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Validate(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var result ValidationResult
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantMissing, result.MissingFields)
		})
	}
}

func TestGatewayHandler_ValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown_gateway", `{"gateway_type": "paypal"}`, "unsupported gateway type 'paypal'"},
		{"missing_gateway_type", `{"bank_code": "akbank"}`, "field 'gateway_type' is required"},
		{"bad_json", `not json`, "is not valid JSON"},
	}

	h := NewGatewayHandler(provider.DefaultRegistry, config.App().Validator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/gateways/validate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Validate(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeEnvelope(t, rec).Error, tt.wantErr)
		})
	}
}
