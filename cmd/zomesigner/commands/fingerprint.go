package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zomesigner/internal/crypto"
	"zomesigner/internal/holohash"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <agent-key>",
		Short: "Print the fingerprint of an agent public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := holohash.ParseAgentPubKey(args[0])
			if err != nil {
				return err
			}
			raw := agent.Raw32()
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", crypto.Fingerprint(raw[:]))
			return nil
		},
	}
	return cmd
}
