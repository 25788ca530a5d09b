package estpos

import "github.com/mstgnz/gopos/provider"

// Register EST V3 with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
