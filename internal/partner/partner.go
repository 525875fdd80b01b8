package partner

import (
	"strconv"
	"strings"

	"pg-bridge-api/internal/constant"
)

const separator = ":"

// ID is the composite mallId:shopIndex:publicKey identifier registered with the
// Mall when a shop enables the gateway.
type ID struct {
	MallID    string
	ShopIndex int
	// informational only, decode does not require it
	PublicKey string
}

func Encode(mallID string, shopIndex int, publicKey string) string {
	return mallID + separator + strconv.Itoa(shopIndex) + separator + publicKey
}

func (id ID) String() string {
	return Encode(id.MallID, id.ShopIndex, id.PublicKey)
}

// Decode parses a partner id. At least mall id and shop index must be present.
func Decode(s string) (ID, error) {
	parts := strings.SplitN(s, separator, 3)
	if len(parts) < 2 {
		return ID{}, constant.NewErrorf(constant.CodeMalformedPartnerID, "malformed partner id %q", s)
	}
	mallID := parts[0]
	if mallID == "" {
		return ID{}, constant.NewErrorf(constant.CodeMalformedPartnerID, "partner id %q has no mall id", s)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || idx < 0 {
		return ID{}, constant.NewErrorf(constant.CodeMalformedPartnerID, "partner id %q has a bad shop index", s)
	}
	id := ID{MallID: mallID, ShopIndex: idx}
	if len(parts) == 3 {
		id.PublicKey = parts[2]
	}
	return id, nil
}
