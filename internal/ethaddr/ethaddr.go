// Package ethaddr holds format checks for the EVM identifiers that flow
// through the API. Malformed values are logged by the handlers, never
// rejected: clients own the canonical data and the route contract only
// requires field presence.
package ethaddr

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return common.IsHexAddress(s)
}

// IsTxHash reports whether s is a 0x-prefixed 32-byte transaction hash.
func IsTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
