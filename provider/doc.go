// Package provider implements the multi-bank transaction orchestration layer
// that sits between a checkout flow and the Turkish bank virtual POS gateways.
//
// The package absorbs nine incompatible bank protocols behind one contract.
// Callers hand a BankConfig, a canonical Order and a Transaction kind to the
// Orchestrator; the orchestrator resolves the bank-specific Account for the
// gateway type, drives a Connector through prepare and execute, and normalizes
// the bank response into a TransactionResult.
//
// # Core Concepts
//
//   - AccountBuilder: one implementation per gateway type, registered by name
//   - Registry: lookup table from gateway type to AccountBuilder
//   - Connector: the bank wire protocol, invoked through a uniform interface
//   - Orchestrator: the prepare, execute and normalize pipeline
//   - Normalize: maps heterogeneous bank responses to TransactionResult
//
// # Gateway Types
//
// Gateway types register themselves from their own packages:
//
//	import _ "github.com/mstgnz/gopos/provider/all"
//
// Registered identifiers are akbank_pos, estv3_pos, garanti_pos, posnet,
// payfor, payflex_mpi, payflex_common, interpos and kuveyt_pos.
//
// # Basic Usage
//
//	orch := provider.NewOrchestrator(bridge.New(bridge.Config{URL: url}))
//
//	order, err := provider.NewOrder(provider.OrderParams{
//	    ID:       "ORD-1",
//	    Amount:   decimal.RequireFromString("100.00"),
//	    Currency: provider.MapCurrency("TRY"),
//	})
//
//	outcome, err := orch.Execute(ctx, cfg, provider.AuthNonSecure{Order: order, Card: card})
//	if err != nil {
//	    // ValidationError, UnsupportedGatewayError, BankCommunicationError,
//	    // CallbackVerificationError or ErrCanceled
//	}
//	if !outcome.Result.Success {
//	    // declined by the bank
//	}
//
// A decline is a normal result with Success set to false. Only exact status
// "approved" counts as success.
package provider
