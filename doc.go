// Package gopos is a multi-bank virtual POS orchestration service for Turkish
// banks. It puts one request format in front of many bank gateways and adds
// an installment engine that turns a card BIN and an amount into installment
// plans.
//
// # Overview
//
// Each bank speaks a different protocol (EST v3, Posnet, Garanti, PayFlex,
// PayFor, InterPOS, Kuveyt, Akbank). GoPOS validates the caller's bank
// config, builds the bank account for the gateway type, normalizes the order
// and hands the call to a connector. The connector talks the bank's wire
// protocol and the raw answer is normalized into one result shape.
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Checkout      │◄──►│     GoPOS       │◄──►│   Connector /   │
//	│   frontends     │    │ (orchestrator)  │    │   Bank gateways │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// # Supported Gateways
//
//   - estv3_pos: İşbank, Akbank (legacy), Halkbank, Ziraat, TEB and other EST v3 banks
//   - posnet: Yapı Kredi, Albaraka
//   - garanti_pos: Garanti BBVA
//   - payflex_mpi, payflex_common: VakıfBank, Ziraat
//   - payfor: QNB Finansbank
//   - interpos: Denizbank
//   - kuveyt_pos: Kuveyt Türk
//   - akbank_pos: Akbank
//
// GET /v1/gateways lists the gateway types with the config fields each needs.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/mstgnz/gopos/provider"
//	    _ "github.com/mstgnz/gopos/provider/all" // registers every gateway
//	    "github.com/mstgnz/gopos/provider/bridge"
//	    "github.com/shopspring/decimal"
//	)
//
//	func main() {
//	    orchestrator := provider.NewOrchestrator(bridge.New(bridge.Config{
//	        URL: "http://localhost:8080/payment_processor.php",
//	    }))
//
//	    order, _ := provider.NewOrder(provider.OrderParams{
//	        ID:       "ORD-1",
//	        Amount:   decimal.RequireFromString("100.00"),
//	        Currency: provider.CurrencyTRY,
//	    })
//	    card, _ := provider.NewCard("4355084355084358", "12", "30", "000", "John Doe")
//
//	    out, err := orchestrator.Execute(context.Background(), provider.BankConfig{
//	        GatewayType:  "akbank_pos",
//	        ClientID:     "merchant-safe-id",
//	        Username:     "terminal-safe-id",
//	        Password:     "secret-key",
//	        PaymentModel: "non_secure",
//	    }, provider.AuthNonSecure{Order: order, Card: card})
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(out.Result.Success)
//	}
//
// # Installments
//
// The installment engine reads banks, BINs, installment configs, campaigns and
// category restrictions from the catalog database (SQLite or PostgreSQL),
// seeded from catalog.yaml on first start:
//
//	engine := installment.NewEngine(store)
//	result, err := engine.Lookup(ctx, installment.Request{
//	    Amount: decimal.RequireFromString("1000"),
//	    BIN:    "450634",
//	})
//
// A known BIN yields that bank's plans; an unknown BIN yields a single payment
// per active bank; no BIN lists every active bank.
//
// # HTTP API
//
//	POST /v1/transactions                      create_3d_form, process_3d_callback,
//	                                           non_secure_payment, cancel, refund,
//	                                           check_status
//	GET  /v1/transactions/{order_id}/logs      transaction log of an order
//	POST /v1/installments                      installment lookup
//	GET  /v1/installments/bin/{bin}            bank of a BIN
//	GET  /v1/installments/test?amount=252      sample plans
//	GET  /v1/gateways                          gateway types and config fields
//	POST /v1/gateways/validate                 check a bank config
//	GET  /health                               health and catalog status
//	GET  /metrics                              Prometheus metrics
//
// /v1 routes require "Authorization: Bearer <API_KEY>".
//
// # Configuration
//
//	APP_PORT=9999
//	API_KEY=your-api-key
//	CONNECTOR_URL=http://localhost:8080/payment_processor.php
//	CONNECTOR_TIMEOUT=30s
//	DB_DRIVER=sqlite3            # or postgres
//	DB_DSN=./data/gopos.db
//	CATALOG_SEED_FILE=./catalog.yaml
//	ENABLE_OPENSEARCH_LOGGING=false
//	OPENSEARCH_URL=http://localhost:9200
//	RATE_LIMIT_PER_MINUTE=100
//
// # Security
//
//   - API key authentication
//   - Rate limiting per client IP
//   - Request validation
//   - Local 3-D Secure callback hash verification where the gateway allows it
//   - Card numbers and CVVs never reach logs
//
// # Adding a Gateway
//
//  1. Implement provider.AccountBuilder under provider/{gateway}/
//  2. Register it from an init function in provider/{gateway}/register.go
//  3. Import it from provider/all
//  4. Add tests for config validation and account building
package gopos
