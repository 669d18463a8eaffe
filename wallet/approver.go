package wallet

import (
	"context"
	"fmt"

	"github.com/eiannone/keyboard"
	"imgportal/engine/library"
)

// TerminalApprover asks on the terminal with a single keypress.
type TerminalApprover struct{}

func (TerminalApprover) Approve(ctx context.Context, app string, account library.Account) (bool, error) {
	fmt.Printf("\n%s wants to connect to your wallet %s\nAllow? [y/n] ", app, account)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			return false, err
		}
		switch {
		case r == 'y' || r == 'Y':
			fmt.Println("y")
			return true, nil
		case r == 'n' || r == 'N' || k == keyboard.KeyEsc || k == keyboard.KeyCtrlC:
			fmt.Println("n")
			return false, nil
		}
	}
}
