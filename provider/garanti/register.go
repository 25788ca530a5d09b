package garanti

import "github.com/mstgnz/gopos/provider"

// Register Garanti with the gateway registry
func init() {
	provider.Register(NewBuilder())
}
