package payfor

import "github.com/mstgnz/gopos/provider"

// Register PayFor with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
