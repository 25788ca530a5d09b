package kuveyt

import "github.com/mstgnz/gopos/provider"

// Register Kuveyt Türk with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
