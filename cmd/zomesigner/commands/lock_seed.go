package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zomesigner/internal/crypto"
	"zomesigner/internal/holohash"
	"zomesigner/internal/seedbundle"
	"zomesigner/internal/util/atomicfile"
)

func lockSeedCmd() *cobra.Command {
	var out, bundlePass string
	cmd := &cobra.Command{
		Use:   "lock-seed",
		Short: "Generate a fresh seed and print it as a locked bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := secretFrom(bundlePass, envBundlePassphrase, "bundle passphrase")
			if err != nil {
				return err
			}
			seed, err := crypto.RandomSeed()
			if err != nil {
				p.Destroy()
				return err
			}
			defer seed.Destroy()

			pub, err := crypto.Ed25519PublicFromSeed(seed.Bytes())
			if err != nil {
				p.Destroy()
				return err
			}
			bundle, err := seedbundle.Lock(seed, p, wire.Config.BundleOptions())
			if err != nil {
				return err
			}
			agent := holohash.AgentPubKeyFromRaw32(pub)

			if out != "" {
				if err := atomicfile.WriteFile(out, []byte(bundle+"\n"), 0o600); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bundle written to %s.\nAgent: %s\n", out, agent)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bundle: %s\nAgent: %s\n", bundle, agent)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the bundle to this file")
	cmd.Flags().StringVar(&bundlePass, "bundle-passphrase", "", "bundle passphrase (default $"+envBundlePassphrase+")")
	return cmd
}
