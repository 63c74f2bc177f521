package codec

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeString(s string) []byte {
	out := make([]byte, 4+len(s))
	binary.LittleEndian.PutUint32(out, uint32(len(s)))
	copy(out[4:], s)
	return out
}

func buildCreate(name, symbol, uri string, creator solana.PublicKey) []byte {
	data := append([]byte{}, createDiscriminator[:]...)
	data = append(data, encodeString(name)...)
	data = append(data, encodeString(symbol)...)
	data = append(data, encodeString(uri)...)
	data = append(data, creator[:]...)
	return data
}

func buildBuy(amount, maxSolCost uint64) []byte {
	data := append([]byte{}, buyDiscriminator[:]...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = binary.LittleEndian.AppendUint64(data, maxSolCost)
	return data
}

func TestDecodeCreate(t *testing.T) {
	creator := solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	data := buildCreate("Moon Cat", "MCAT", "https://example.invalid/mcat.json", creator)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindCreate, ix.Kind)
	require.NotNil(t, ix.Create)
	assert.Equal(t, "Moon Cat", ix.Create.Name)
	assert.Equal(t, "MCAT", ix.Create.Symbol)
	assert.Equal(t, "https://example.invalid/mcat.json", ix.Create.URI)
	assert.Equal(t, creator, ix.Create.Creator)
	assert.Nil(t, ix.Buy)
}

func TestDecodeCreateEmptyStrings(t *testing.T) {
	creator := solana.MustPublicKeyFromBase58("62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV")
	data := buildCreate("", "", "", creator)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindCreate, ix.Kind)
	assert.Empty(t, ix.Create.Name)
	assert.Empty(t, ix.Create.Symbol)
	assert.Empty(t, ix.Create.URI)
	assert.Equal(t, creator, ix.Create.Creator)
}

func TestDecodeBuy(t *testing.T) {
	data := buildBuy(25_454_545, 1_000_000_000)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindBuy, ix.Kind)
	require.NotNil(t, ix.Buy)
	assert.Equal(t, uint64(25_454_545), ix.Buy.TokenAmount)
	assert.Equal(t, uint64(1_000_000_000), ix.Buy.MaxSolCost)
	assert.Nil(t, ix.Create)
}

func TestDecodeCreateTruncated(t *testing.T) {
	creator := solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	full := buildCreate("Pepe Classic", "PEPEC", "https://example.invalid/pepec.json", creator)

	// Every strict prefix of a valid payload must fail cleanly, never panic.
	for n := 8; n < len(full); n++ {
		_, err := Decode(full[:n])
		assert.Errorf(t, err, "prefix of %d bytes decoded without error", n)
	}
}

func TestDecodeBuyTruncated(t *testing.T) {
	full := buildBuy(1, 2)

	for n := 8; n < len(full); n++ {
		_, err := Decode(full[:n])
		assert.Errorf(t, err, "prefix of %d bytes decoded without error", n)
	}
}

func TestDecodeCreateInvalidUTF8(t *testing.T) {
	data := append([]byte{}, createDiscriminator[:]...)
	data = append(data, []byte{3, 0, 0, 0, 0xff, 0xfe, 0xfd}...)
	data = append(data, encodeString("SYM")...)
	data = append(data, encodeString("uri")...)
	data = append(data, make([]byte, 32)...)

	_, err := Decode(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestDecodeLegacyCreate(t *testing.T) {
	data := []byte{legacyCreateOpcode, 0, 0, 0, 0, 0, 0, 0}
	data = append(data, encodeString("Old Coin")...)
	data = append(data, encodeString("OLD")...)
	data = append(data, encodeString("ipfs://old")...)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindCreate, ix.Kind)
	assert.Equal(t, "Old Coin", ix.Create.Name)
	assert.Equal(t, "OLD", ix.Create.Symbol)
	assert.Equal(t, "ipfs://old", ix.Create.URI)
	assert.True(t, ix.Create.Creator.IsZero())
}

func TestDecodeLegacyBuy(t *testing.T) {
	data := []byte{legacyBuyOpcode, 0, 0, 0, 0, 0, 0, 0}
	data = binary.LittleEndian.AppendUint64(data, 777)
	data = binary.LittleEndian.AppendUint64(data, 9_000_000)

	ix, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindBuy, ix.Kind)
	assert.Equal(t, uint64(777), ix.Buy.TokenAmount)
	assert.Equal(t, uint64(9_000_000), ix.Buy.MaxSolCost)
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x00, 0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestDecodeTooShort(t *testing.T) {
	for n := 0; n < 8; n++ {
		_, err := Decode(make([]byte, n))
		assert.ErrorIs(t, err, ErrTooShort)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "create", KindCreate.String())
	assert.Equal(t, "buy", KindBuy.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
