package commands

import (
	"context"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"zomesigner/internal/app"
	"zomesigner/internal/crypto"
)

// Environment variables holding passphrases when the flags are not used.
const (
	envPassphrase       = "ZOMESIGNER_PASSPHRASE"
	envBundlePassphrase = "ZOMESIGNER_BUNDLE_PASSPHRASE"
)

var (
	configPath  string
	keystoreURL string
	passphrase  string
	timeout     time.Duration

	wire *app.Wire
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "zomesigner",
		Short:        "Sign zome calls and import seeds through a keystore",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if keystoreURL != "" {
				cfg.KeystoreURL = keystoreURL
			}
			if err := app.InitLogging(cfg); err != nil {
				return err
			}
			wire, err = app.NewWire(cfg, nil)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.zomesigner/config.yaml)")
	root.PersistentFlags().StringVar(&keystoreURL, "keystore-url", "", "keystore address (unix:///path or tcp://host:port)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "keystore passphrase (default $"+envPassphrase+")")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for keystore operations")

	root.AddCommand(signCmd(), verifyCmd(), importSeedCmd(), lockSeedCmd(), fingerprintCmd())
	return root
}

// secretFrom moves the flag value, or else the environment value, into a
// locked buffer.
func secretFrom(flagValue, env, what string) (*memguard.LockedBuffer, error) {
	v := flagValue
	if v == "" {
		v = os.Getenv(env)
	}
	if v == "" {
		return nil, errors.Errorf("%s required (flag or $%s)", what, env)
	}
	return crypto.NewSecretFromString(v), nil
}

// connect opens the keystore session for the duration of one command.
func connect(cmd *cobra.Command) (context.Context, func(), error) {
	p, err := secretFrom(passphrase, envPassphrase, "keystore passphrase")
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	if err := wire.Connect(ctx, p); err != nil {
		cancel()
		return nil, nil, err
	}
	return ctx, func() {
		_ = wire.Close()
		cancel()
	}, nil
}
