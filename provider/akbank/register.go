package akbank

import "github.com/mstgnz/gopos/provider"

// Register Akbank with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
