package payflex

import "github.com/mstgnz/gopos/provider"

func init() {
	provider.Register(NewMPIBuilder())
	provider.Register(NewCommonBuilder())
}
