package interpos

import "github.com/mstgnz/gopos/provider"

// Register InterPOS with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
