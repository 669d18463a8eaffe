package program

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/assert/v2"
	"imgportal/engine/library"
)

// encodeBaseAccount lays out items the way the program stores them.
func encodeBaseAccount(items []library.Item) ([]byte, error) {
	acc := baseAccount{TotalItems: uint64(len(items))}
	for _, it := range items {
		pk, err := solana.PublicKeyFromBase58(it.Submitter)
		if err != nil {
			return nil, err
		}
		acc.Items = append(acc.Items, itemStruct{Link: it.Link, UserAddress: pk})
	}
	disc := accountDiscriminator()
	buf := bytes.NewBuffer(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(acc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestBaseAccountRoundTrip(t *testing.T) {
	x := solana.NewWallet().PublicKey().String()
	y := solana.NewWallet().PublicKey().String()
	items := []library.Item{
		{Link: "https://example.com/b.png", Submitter: y},
		{Link: "https://example.com/a.png", Submitter: x},
		{Link: "https://example.com/a.png", Submitter: x},
	}
	data, err := encodeBaseAccount(items)
	assert.Equal(t, nil, err)

	decoded, err := decodeBaseAccount(data)
	assert.Equal(t, nil, err)
	// stored order and duplicates are kept
	assert.Equal(t, items, decoded)
}

func TestDecodeEmptyBaseAccount(t *testing.T) {
	data, err := encodeBaseAccount(nil)
	assert.Equal(t, nil, err)
	decoded, err := decodeBaseAccount(data)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(decoded))
}

func TestDecodeRejectsForeignData(t *testing.T) {
	_, err := decodeBaseAccount([]byte{1, 2, 3})
	assert.Equal(t, true, errors.Is(err, library.ErrMalformed))

	data, _ := encodeBaseAccount(nil)
	data[0] ^= 0xff
	_, err = decodeBaseAccount(data)
	assert.Equal(t, true, errors.Is(err, library.ErrMalformed))

	data, _ = encodeBaseAccount([]library.Item{{Link: "a", Submitter: solana.NewWallet().PublicKey().String()}})
	_, err = decodeBaseAccount(data[:len(data)-5])
	assert.Equal(t, true, errors.Is(err, library.ErrMalformed))
}

func TestInstructionData(t *testing.T) {
	data, err := instructionData("add_img", []interface{}{"abc"})
	assert.Equal(t, nil, err)
	disc := library.Discriminator("global", "add_img")
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, "abc", string(data[12:]))

	data, err = instructionData("start_stuff_off", nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, 8, len(data))
}
