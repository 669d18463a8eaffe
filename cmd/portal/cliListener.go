package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/eiannone/keyboard"
	"imgportal/engine/actors"
	"imgportal/engine/library"
)

const help = "c: connect wallet\ni: initialize shared account\ns: submit a link\nl: refresh and list\nd: disconnect\nw: current wallet\nC: config\ne: last error\nq: quit"

// cliListener listens for keypresses and runs the matching action until q is pressed.
func cliListener(ctx context.Context, a *app) {
	fmt.Println(help)
	printView(a.controller.View())
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			fmt.Println(err)
			return
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if k == keyboard.KeyCtrlC {
				actors.Terminate()
				return
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything.\n" + help)
		case "q":
			actors.Terminate()
			return
		case "c":
			logFailure(a.controller.Connect(ctx))
			printView(a.controller.View())
		case "i":
			logFailure(a.controller.Initialize(ctx))
			printView(a.controller.View())
		case "s":
			fmt.Print("Enter image link: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				fmt.Println(err)
				break
			}
			logFailure(a.controller.Submit(ctx, strings.TrimRight(line, "\r\n")))
			printView(a.controller.View())
		case "l":
			logFailure(a.controller.Refresh(ctx))
			printView(a.controller.View())
		case "d":
			a.controller.Disconnect(ctx)
			printView(a.controller.View())
		case "w":
			fmt.Printf("Current Wallet: \n%s\n", a.controller.View().Account)
		case "C":
			fmt.Println("CURRENT CONFIG")
			for k, v := range a.conf.AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		case "e":
			if err := a.controller.View().LastError; err != nil {
				fmt.Printf("Last error: %s (%s)\n", err, library.KindOf(err))
			} else {
				fmt.Println("No errors")
			}
		}
	}
}

// logFailure logs err, if there is one, and reports whether it did.
func logFailure(err error) bool {
	if err == nil {
		return false
	}
	library.LogCLI(fmt.Sprintf("%s (%s)", err.Error(), library.KindOf(err)), 3)
	return true
}
