package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"imgportal/engine/library"
	"imgportal/wallet"
)

func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Share image links on a single on-chain account",
		Long:  "Connects your wallet, and lets you view and add to the shared image list. Without a subcommand it runs interactively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			defer a.close()
			a.controller.Start(cmd.Context())
			cliListener(cmd.Context(), a)
			return nil
		},
	}
	rootCmd.AddCommand(listCommand(), initCommand(), submitCommand(), walletCommand())
	return rootCmd
}

// connected runs fn once the wallet has silently reconnected, or after prompting.
func connected(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(loadConfig())
	if err != nil {
		return err
	}
	defer a.close()
	a.controller.Start(ctx)
	if v := a.controller.View(); v.Notice != nil {
		return v.Notice
	}
	if !a.controller.State().Connected() {
		if err := a.controller.Connect(ctx); err != nil {
			return err
		}
	}
	err = fn(a)
	printView(a.controller.View())
	return err
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "print the shared list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return connected(cmd.Context(), func(a *app) error {
				return a.controller.View().LastError
			})
		},
	}
}

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "do the one-time initialization of the shared account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return connected(cmd.Context(), func(a *app) error {
				return a.controller.Initialize(cmd.Context())
			})
		},
	}
}

func submitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <link>",
		Short: "add an image link to the shared list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return connected(cmd.Context(), func(a *app) error {
				return a.controller.Submit(cmd.Context(), args[0])
			})
		},
	}
}

func walletCommand() *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "manage the local wallet",
	}

	var seedWords string
	create := &cobra.Command{
		Use:   "new",
		Short: "create a wallet, or restore one from seed words",
		RunE: func(cmd *cobra.Command, args []string) error {
			ks := newKeystore(loadConfig(), nil)
			var w wallet.Wallet
			var err error
			if len(seedWords) > 0 {
				w, err = wallet.WalletFromSeedWords(seedWords)
			} else {
				library.LogCLI("Generating a new wallet, write down the seed words if you want to keep it", 4)
				w, err = wallet.NewWallet()
			}
			if err != nil {
				return err
			}
			if err := ks.Create(w); err != nil {
				return err
			}
			fmt.Printf("\n\n~NEW WALLET~\nPublic Key: %s\nSeed Words: %s\n\n", w.Account, w.SeedWords)
			return nil
		},
	}
	create.Flags().StringVarP(&seedWords, "seed", "s", "", "restore from these seed words instead of generating new ones")
	walletCmd.AddCommand(create)

	walletCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "print the wallet's public keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, ok, err := newKeystore(loadConfig(), nil).Wallet()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no wallet found, create one with `portal wallet new`")
			}
			fmt.Printf("Public Key: %s\nNostr Public Key: %s\n", w.Account, w.NostrPubKey)
			return nil
		},
	})

	walletCmd.AddCommand(&cobra.Command{
		Use:   "revoke",
		Short: "forget that this app was approved, so the next connect prompts again",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := loadConfig()
			return newKeystore(conf, nil).Revoke(conf.GetString("appName"))
		},
	})
	return walletCmd
}
