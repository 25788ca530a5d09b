package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gopos/handler"
)

// Handlers groups the handlers mounted under /v1
type Handlers struct {
	Transactions *handler.TransactionHandler
	Installments *handler.InstallmentHandler
	Gateways     *handler.GatewayHandler
	Audit        *handler.AuditHandler
}

// Routes registers all API routes
func Routes(r chi.Router, h Handlers) {
	r.Post("/transactions", h.Transactions.Process)
	r.Get("/transactions/{order_id}/logs", h.Audit.OrderLogs)

	r.Route("/installments", func(r chi.Router) {
		r.Post("/", h.Installments.Lookup)
		r.Get("/bin/{bin}", h.Installments.DetectBIN)
		r.Get("/test", h.Installments.Test)
	})

	r.Route("/gateways", func(r chi.Router) {
		r.Get("/", h.Gateways.List)
		r.Post("/validate", h.Gateways.Validate)
	})
}
