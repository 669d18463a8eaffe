package program

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"imgportal/engine/library"
)

const baseAccountName = "BaseAccount"

// baseAccount is the on-chain layout of the shared account, after the discriminator.
type baseAccount struct {
	TotalItems uint64
	Items      []itemStruct
}

type itemStruct struct {
	Link        string
	UserAddress solana.PublicKey
}

func accountDiscriminator() [8]byte {
	return library.Discriminator("account", baseAccountName)
}

func instructionDiscriminator(method string) [8]byte {
	return library.Discriminator("global", method)
}

// decodeBaseAccount turns raw account data into items, in the order the program stored them.
func decodeBaseAccount(data []byte) ([]library.Item, error) {
	disc := accountDiscriminator()
	if len(data) < len(disc) {
		return nil, fmt.Errorf("account data is %d bytes: %w", len(data), library.ErrMalformed)
	}
	if !bytes.Equal(data[:len(disc)], disc[:]) {
		return nil, fmt.Errorf("account is not a %s: %w", baseAccountName, library.ErrMalformed)
	}
	var acc baseAccount
	if err := bin.NewBorshDecoder(data[len(disc):]).Decode(&acc); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), library.ErrMalformed)
	}
	items := make([]library.Item, 0, len(acc.Items))
	for _, it := range acc.Items {
		items = append(items, library.Item{Link: it.Link, Submitter: it.UserAddress.String()})
	}
	return items, nil
}

// instructionData is the discriminator followed by each argument in Borsh.
func instructionData(method string, args []interface{}) ([]byte, error) {
	disc := instructionDiscriminator(method)
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	enc := bin.NewBorshEncoder(buf)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return nil, fmt.Errorf("encoding argument for %s: %w", method, err)
		}
	}
	return buf.Bytes(), nil
}
