// Package codec decodes pump.fun instruction payloads into typed events.
//
// Dispatch is by an 8-byte discriminator prefix with two tiers: exact 8-byte
// discriminators for the current encoding, and single-byte legacy opcodes for
// the historical encoding. The structured path uses a Borsh decoder; when it
// fails, a manual cursor decoder over the same field layout takes over and
// reports exactly which field the payload ran out of bytes for.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Kind identifies the decoded instruction type.
type Kind int

// Instruction kinds.
const (
	KindUnknown Kind = iota
	KindCreate
	KindBuy
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindBuy:
		return "buy"
	default:
		return "unknown"
	}
}

// CreateEvent is a token launch: metadata plus the creator account.
// Creator is the zero key when it cannot be recovered from the payload;
// the caller is expected to substitute the transaction fee payer.
type CreateEvent struct {
	Name    string
	Symbol  string
	URI     string
	Creator solana.PublicKey
}

// BuyEvent is an observed purchase. MaxSolCost is declared on the wire as a
// cost cap but carries the transacted SOL amount in observed flow; downstream
// pricing is calibrated to that reading, so it must not be reinterpreted.
type BuyEvent struct {
	TokenAmount uint64 // base units, 6 implied decimals
	MaxSolCost  uint64 // lamports
}

// Instruction is the decoded result. Exactly one of Create/Buy is non-nil,
// matching Kind.
type Instruction struct {
	Kind   Kind
	Create *CreateEvent
	Buy    *BuyEvent
}

// Decode errors.
var (
	// ErrTooShort is returned for payloads shorter than the discriminator.
	ErrTooShort = errors.New("instruction data too short")
	// ErrUnknownInstruction is returned when neither discriminator tier matches.
	ErrUnknownInstruction = errors.New("unknown instruction")
)

// 8-byte discriminators for the current instruction encoding.
var (
	createDiscriminator = [8]byte{0x18, 0x1e, 0xc8, 0x28, 0x05, 0x1c, 0x07, 0x77}
	buyDiscriminator    = [8]byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
)

// Legacy single-byte opcodes. Only the first byte is checked; the remaining
// seven discriminator bytes are ignored. This mirrors the historical encoding
// and can in principle false-positive against unrelated instructions that
// happen to start with the same byte.
const (
	legacyCreateOpcode = 24
	legacyBuyOpcode    = 102
)

// Decode parses raw instruction data into a typed event. It is a pure
// function: no side effects, total over its input.
func Decode(data []byte) (Instruction, error) {
	if len(data) < 8 {
		return Instruction{}, ErrTooShort
	}

	switch {
	case bytes.Equal(data[:8], createDiscriminator[:]):
		ev, err := decodeCreate(data)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: KindCreate, Create: ev}, nil

	case bytes.Equal(data[:8], buyDiscriminator[:]):
		ev, err := decodeBuy(data)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: KindBuy, Buy: ev}, nil
	}

	// Legacy tier: first byte only.
	switch data[0] {
	case legacyCreateOpcode:
		ev, err := cursorDecodeCreate(data, false)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: KindCreate, Create: ev}, nil

	case legacyBuyOpcode:
		ev, err := cursorDecodeBuy(data)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: KindBuy, Buy: ev}, nil
	}

	return Instruction{}, ErrUnknownInstruction
}

// decodeCreate tries the structured Borsh decode and falls back to the
// manual cursor on failure.
func decodeCreate(data []byte) (*CreateEvent, error) {
	var args struct {
		Name   string
		Symbol string
		URI    string
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(&args); err == nil {
		// The creator key rides after the record fields as the last 32
		// bytes of the payload. It is only trustworthy when those bytes
		// sit past the discriminator; otherwise leave the zero key.
		var creator solana.PublicKey
		if off := len(data) - 32; off >= 8 {
			copy(creator[:], data[off:])
		}
		return &CreateEvent{
			Name:    args.Name,
			Symbol:  args.Symbol,
			URI:     args.URI,
			Creator: creator,
		}, nil
	}

	return cursorDecodeCreate(data, true)
}

// decodeBuy tries the structured Borsh decode and falls back to the
// manual cursor on failure.
func decodeBuy(data []byte) (*BuyEvent, error) {
	var args struct {
		Amount     uint64
		MaxSolCost uint64
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(&args); err == nil {
		return &BuyEvent{TokenAmount: args.Amount, MaxSolCost: args.MaxSolCost}, nil
	}

	return cursorDecodeBuy(data)
}

// cursorDecodeCreate walks the create field layout with explicit bounds
// checks. withCreator controls whether the trailing creator key is required;
// the legacy encoding never carries one.
func cursorDecodeCreate(data []byte, withCreator bool) (*CreateEvent, error) {
	cur := cursor{data: data, off: 8}

	name, err := cur.readString("name")
	if err != nil {
		return nil, err
	}
	symbol, err := cur.readString("symbol")
	if err != nil {
		return nil, err
	}
	uri, err := cur.readString("uri")
	if err != nil {
		return nil, err
	}

	var creator solana.PublicKey
	if withCreator {
		key, err := cur.readPubkey("creator")
		if err != nil {
			return nil, err
		}
		creator = key
	}

	return &CreateEvent{Name: name, Symbol: symbol, URI: uri, Creator: creator}, nil
}

// cursorDecodeBuy walks the buy field layout with explicit bounds checks.
func cursorDecodeBuy(data []byte) (*BuyEvent, error) {
	cur := cursor{data: data, off: 8}

	amount, err := cur.readUint64("token amount")
	if err != nil {
		return nil, err
	}
	maxSolCost, err := cur.readUint64("sol cost")
	if err != nil {
		return nil, err
	}

	return &BuyEvent{TokenAmount: amount, MaxSolCost: maxSolCost}, nil
}

// cursor reads fixed-layout fields with bounds checks. Strings are a 4-byte
// little-endian length prefix followed by UTF-8 bytes; integers are
// fixed-width little-endian.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) readString(field string) (string, error) {
	if c.off+4 > len(c.data) {
		return "", fmt.Errorf("insufficient bytes for %s length", field)
	}
	n := int(binary.LittleEndian.Uint32(c.data[c.off:]))
	c.off += 4

	if n < 0 || c.off+n > len(c.data) {
		return "", fmt.Errorf("insufficient bytes for %s", field)
	}
	raw := c.data[c.off : c.off+n]
	c.off += n

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s is not valid utf-8", field)
	}
	return string(raw), nil
}

func (c *cursor) readUint64(field string) (uint64, error) {
	if c.off+8 > len(c.data) {
		return 0, fmt.Errorf("insufficient bytes for %s", field)
	}
	v := binary.LittleEndian.Uint64(c.data[c.off:])
	c.off += 8
	return v, nil
}

func (c *cursor) readPubkey(field string) (solana.PublicKey, error) {
	if c.off+32 > len(c.data) {
		return solana.PublicKey{}, fmt.Errorf("insufficient bytes for %s key", field)
	}
	var key solana.PublicKey
	copy(key[:], c.data[c.off:c.off+32])
	c.off += 32
	return key, nil
}
