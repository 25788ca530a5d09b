package posnet

import "github.com/mstgnz/gopos/provider"

// Register POSNET with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
