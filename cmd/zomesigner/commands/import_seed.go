package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"zomesigner/internal/domain"
)

func importSeedCmd() *cobra.Command {
	var bundle, bundleFile, tag, bundlePass string
	cmd := &cobra.Command{
		Use:   "import-seed",
		Short: "Import a locked seed bundle into the keystore under a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tag == "" {
				return errors.New("tag required (--tag)")
			}
			if bundleFile != "" {
				b, err := os.ReadFile(bundleFile)
				if err != nil {
					return err
				}
				bundle = strings.TrimSpace(string(b))
			}
			if bundle == "" {
				return errors.New("bundle required (--bundle or --bundle-file)")
			}
			p, err := secretFrom(bundlePass, envBundlePassphrase, "bundle passphrase")
			if err != nil {
				return err
			}
			ctx, done, err := connect(cmd)
			if err != nil {
				p.Destroy()
				return err
			}
			defer done()

			id, err := wire.Importer.ImportLockedSeedBundle(ctx, bundle, p, domain.Tag(tag))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seed imported.\nAgent: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "keystore tag for the imported seed")
	cmd.Flags().StringVar(&bundle, "bundle", "", "locked seed bundle (base64url)")
	cmd.Flags().StringVar(&bundleFile, "bundle-file", "", "file holding the locked seed bundle")
	cmd.Flags().StringVar(&bundlePass, "bundle-passphrase", "", "bundle passphrase (default $"+envBundlePassphrase+")")
	return cmd
}
