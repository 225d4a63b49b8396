package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zomesigner/internal/domain"
	"zomesigner/internal/holohash"
	"zomesigner/internal/services/signer"
)

func verifyCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the signature of a signed zome call read as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var signed domain.SignedCall
			if err := readJSON(cmd, in, &signed); err != nil {
				return err
			}
			if err := signer.Verify(signed); err != nil {
				return err
			}
			agent, err := holohash.AgentPubKeyFromRaw39(signed.Provenance)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signature OK.\nProvenance: %s\n", agent)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "signed call JSON file, - for stdin")
	return cmd
}
