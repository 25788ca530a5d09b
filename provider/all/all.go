// Package all registers every supported gateway type with the default
// registry.
package all

import (
	_ "github.com/mstgnz/gopos/provider/akbank"
	_ "github.com/mstgnz/gopos/provider/estpos"
	_ "github.com/mstgnz/gopos/provider/garanti"
	_ "github.com/mstgnz/gopos/provider/interpos"
	_ "github.com/mstgnz/gopos/provider/kuveyt"
	_ "github.com/mstgnz/gopos/provider/payflex"
	_ "github.com/mstgnz/gopos/provider/payfor"
	_ "github.com/mstgnz/gopos/provider/posnet"
)
