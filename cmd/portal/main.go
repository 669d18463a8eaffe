package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"imgportal/engine/actors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		select {
		case <-ctx.Done():
		case <-actors.GetTerminateChan():
			stop()
		}
	}()
	rootCmd := RootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
