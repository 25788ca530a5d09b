package estpos

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"sort"
	"strings"

	"github.com/mstgnz/gopos/provider"
)

var hashExcluded = map[string]bool{
	"hash":     true,
	"encoding": true,
}

// Hash3D computes the ver3 hash: every posted parameter except HASH and
// encoding, sorted by name case-insensitively, values escaped and joined
// with "|", followed by the store key. SHA-512, base64 encoded.
func Hash3D(params map[string]string, storeKey string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if hashExcluded[strings.ToLower(k)] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	values := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		values = append(values, escape(params[k]))
	}
	values = append(values, escape(storeKey))

	sum := sha512.Sum512([]byte(strings.Join(values, "|")))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func escape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "|", `\|`)
}

func verifyHash(payload map[string]string, storeKey string) error {
	posted := payload["HASH"]
	if posted == "" {
		return &provider.CallbackVerificationError{GatewayType: GatewayType, Reason: "HASH is missing"}
	}
	expected := Hash3D(payload, storeKey)
	if subtle.ConstantTimeCompare([]byte(posted), []byte(expected)) != 1 {
		return &provider.CallbackVerificationError{GatewayType: GatewayType, Reason: "HASH mismatch"}
	}
	return nil
}
