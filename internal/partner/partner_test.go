package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, mallID := range []string{"demo", "ectmtjpq001", "mall-with-dash", "m"} {
		for _, idx := range []int{0, 1, 17} {
			id, err := Decode(Encode(mallID, idx, "demo-app-public-key"))
			require.NoError(t, err)
			assert.Equal(t, mallID, id.MallID)
			assert.Equal(t, idx, id.ShopIndex)
			assert.Equal(t, "demo-app-public-key", id.PublicKey)
		}
	}
}

func TestDecodeWithoutPublicKey(t *testing.T) {
	id, err := Decode("demo:2")
	require.NoError(t, err)
	assert.Equal(t, ID{MallID: "demo", ShopIndex: 2}, id)
}

func TestDecodePublicKeyMayContainColons(t *testing.T) {
	id, err := Decode("demo:0:key:with:colons")
	require.NoError(t, err)
	assert.Equal(t, "key:with:colons", id.PublicKey)
}

func TestDecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "demo", ":1:key", "demo:x:key", "demo:-1:key"} {
		t.Run(s, func(t *testing.T) {
			_, err := Decode(s)
			assert.ErrorIs(t, err, constant.NewError(constant.CodeMalformedPartnerID))
		})
	}
}

func TestDecodeKeepsMallIDVerbatim(t *testing.T) {
	id, err := Decode(Encode(" demo ", 2, "pk"))
	require.NoError(t, err)
	assert.Equal(t, " demo ", id.MallID)
	assert.Equal(t, Encode(" demo ", 2, "pk"), id.String())
}
