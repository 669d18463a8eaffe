package actors

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"imgportal/engine/library"
)

// DefaultRPCEndpoint is the public devnet endpoint.
const DefaultRPCEndpoint string = "https://api.devnet.solana.com"

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/imgportal/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	SetDefaults(config)
	// Create our working directory and config file if not exist
	initRootDir(config)
	if err := Touch(config.GetString("rootDir") + "config.yaml"); err != nil {
		library.LogCLI(err.Error(), 1)
	}
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
	ApplyConfig(config)
}

// SetDefaults registers every setting the client reads. It does not touch the filesystem.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("rpcEndpoint", DefaultRPCEndpoint)
	// programID has no sensible default, it is the address of whichever deployment the user targets
	config.SetDefault("programID", "")
	config.SetDefault("baseAccountKeypair", config.GetString("rootDir")+"baseAccount.json")
	config.SetDefault("commitment", "processed")
	config.SetDefault("rpcTimeout", 30*time.Second)
	config.SetDefault("confirmPollInterval", 500*time.Millisecond)
	config.SetDefault("appName", "imgportal")
	config.SetDefault("logLevel", 4)
	config.SetDefault("announceRelays", []string{})
	config.SetDefault("deadlockTimeout", 30*time.Second)
}

// ApplyConfig pushes process-wide settings into the library.
func ApplyConfig(config *viper.Viper) {
	library.SetLogLevel(config.GetInt("logLevel"))
	library.ConfigureDeadlockDetection(config.GetDuration("deadlockTimeout"))
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

// DataDir returns the directory for one component's flat files.
func DataDir(conf *viper.Viper, component string) string {
	return filepath.Join(conf.GetString("rootDir"), conf.GetString("flatFileDir"), component)
}
