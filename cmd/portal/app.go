package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
	"imgportal/engine/actors"
	"imgportal/engine/library"
	"imgportal/gateway"
	"imgportal/messaging/announce"
	"imgportal/program"
	"imgportal/state/lifecycle"
	"imgportal/state/listsync"
	"imgportal/wallet"
)

// app is the process scoped session: every component is built once here and injected.
type app struct {
	conf       *viper.Viper
	keystore   *wallet.Keystore
	session    *wallet.Session
	gateway    *gateway.Gateway
	controller *lifecycle.Controller
	announcer  *announce.Publisher
}

func loadConfig() *viper.Viper {
	// Various aspect of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()
	actors.InitConfig(conf)
	return conf
}

func newKeystore(conf *viper.Viper, approver wallet.Approver) *wallet.Keystore {
	return wallet.NewKeystore(actors.NewStore(actors.DataDir(conf, "wallet")), conf.GetString("appName"), approver)
}

func newApp(conf *viper.Viper) (*app, error) {
	programID, err := solana.PublicKeyFromBase58(conf.GetString("programID"))
	if err != nil {
		return nil, fmt.Errorf("programID is not configured in %sconfig.yaml: %w", conf.GetString("rootDir"), err)
	}
	baseAccount, err := program.LoadOrCreateKeypair(conf.GetString("baseAccountKeypair"))
	if err != nil {
		return nil, fmt.Errorf("loading base account keypair: %w", err)
	}
	client := program.New(conf.GetString("rpcEndpoint"), programID, baseAccount, program.Options{
		Commitment:   rpc.CommitmentType(conf.GetString("commitment")),
		PollInterval: conf.GetDuration("confirmPollInterval"),
	})

	a := &app{conf: conf}
	a.keystore = newKeystore(conf, wallet.TerminalApprover{})
	var provider wallet.Provider
	if a.keystore.IsAvailable() {
		provider = a.keystore
	}
	a.session = wallet.NewSession(provider)
	a.gateway = gateway.New(client, client.BaseAccount().String(), a.session, conf.GetDuration("rpcTimeout"))
	a.controller = lifecycle.New(a.session, a.gateway, listsync.New(a.gateway))

	if w, ok, err := a.keystore.Wallet(); err == nil && ok {
		a.announcer = announce.New(conf.GetStringSlice("announceRelays"), w.NostrPrivateKey, w.NostrPubKey, a.gateway.Address())
	}
	if a.announcer != nil {
		a.controller.WithAnnouncer(a.announcer)
	}
	library.LogCLI(fmt.Sprintf("Shared account: %s on %s", a.gateway.Address(), conf.GetString("rpcEndpoint")), 3)
	return a, nil
}

func (a *app) close() {
	a.controller.Stop()
	if a.announcer != nil {
		a.announcer.Wait()
	}
}

func printView(v lifecycle.View) {
	fmt.Printf("\nState: %s\n", v.State)
	if len(v.Account) > 0 {
		fmt.Printf("Wallet: %s\n", v.Account)
	}
	if v.Notice != nil {
		fmt.Printf("!! %s\n", v.Notice)
	}
	switch v.State {
	case library.Disconnected:
		fmt.Println("Press c to connect your wallet")
	case library.ConnectedUninitialized:
		fmt.Println("Press i to do the one-time initialization of the shared account")
	case library.ConnectedReady:
		fmt.Printf("%d items\n", len(v.Items))
		for i, item := range v.Items {
			fmt.Printf("%3d. %s\n     Uploaded By: %s\n", i+1, item.Link, item.Submitter)
		}
	}
	if v.LastError != nil {
		fmt.Printf("Error: %s\n", v.LastError)
	}
}
