package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gopos/infra/response"
	"github.com/mstgnz/gopos/provider"
)

// GatewayRegistry is the read side of provider.Registry
type GatewayRegistry interface {
	Get(gatewayType string) (provider.AccountBuilder, error)
	GatewayTypes() []string
}

// GatewayHandler exposes the gateway schemas and config validation
type GatewayHandler struct {
	registry GatewayRegistry
	validate *validator.Validate
}

// NewGatewayHandler creates a new gateway handler
func NewGatewayHandler(registry GatewayRegistry, validate *validator.Validate) *GatewayHandler {
	return &GatewayHandler{
		registry: registry,
		validate: validate,
	}
}

// GatewaySchema lists the config fields of one gateway type
type GatewaySchema struct {
	GatewayType string                 `json:"gateway_type"`
	Fields      []provider.ConfigField `json:"fields"`
}

// ValidationResult is the result of POST /v1/gateways/validate
type ValidationResult struct {
	Success       bool     `json:"success"`
	GatewayType   string   `json:"gateway_type"`
	PaymentModel  string   `json:"payment_model"`
	MissingFields []string `json:"missing_fields"`
}

// List handles GET /v1/gateways
func (h *GatewayHandler) List(w http.ResponseWriter, r *http.Request) {
	types := h.registry.GatewayTypes()
	schemas := make([]GatewaySchema, 0, len(types))
	for _, gatewayType := range types {
		builder, err := h.registry.Get(gatewayType)
		if err != nil {
			continue
		}
		schemas = append(schemas, GatewaySchema{
			GatewayType: gatewayType,
			Fields:      builder.RequiredConfig(),
		})
	}
	response.Success(w, http.StatusOK, "Supported gateways", schemas)
}

// Validate handles POST /v1/gateways/validate. It lists every missing field
// instead of stopping at the first one.
func (h *GatewayHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var cfg provider.BankConfig
	if err := decodeRequest(r, h.validate, &cfg); err != nil {
		writeTransactionError(w, err)
		return
	}

	builder, err := h.registry.Get(cfg.GatewayType)
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	missing := MissingFields(cfg, builder.RequiredConfig())
	result := ValidationResult{
		Success:       len(missing) == 0,
		GatewayType:   cfg.GatewayType,
		PaymentModel:  string(provider.MapPaymentModel(cfg.PaymentModel)),
		MissingFields: missing,
	}

	msg := "Bank config is complete"
	if !result.Success {
		msg = "Bank config is incomplete"
	}
	response.Success(w, http.StatusOK, msg, result)
}

// MissingFields returns the required schema fields absent from cfg plus the
// 3-D endpoint its payment model needs
func MissingFields(cfg provider.BankConfig, fields []provider.ConfigField) []string {
	missing := provider.MissingConfigFields(cfg.Map(), fields)

	switch provider.MapPaymentModel(cfg.PaymentModel) {
	case provider.Model3DSecure, provider.Model3DPay:
		if cfg.Endpoints.Gateway3D == "" {
			missing = append(missing, "gateway_3d")
		}
	case provider.Model3DHost:
		if cfg.Endpoints.Gateway3DHost == "" {
			missing = append(missing, "gateway_3d_host")
		}
	}

	if missing == nil {
		missing = []string{}
	}
	return missing
}
