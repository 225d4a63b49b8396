package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"zomesigner/internal/domain"
	"zomesigner/internal/util/atomicfile"
)

func signCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an unsigned zome call read as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var call domain.UnsignedCall
			if err := readJSON(cmd, in, &call); err != nil {
				return err
			}
			ctx, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			signed, err := wire.Signer.SignZomeCall(ctx, call)
			if err != nil {
				return err
			}
			return writeJSON(cmd, out, signed)
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "unsigned call JSON file, - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the signed call here instead of stdout")
	return cmd
}

func readJSON(cmd *cobra.Command, path string, v any) error {
	if path != "-" {
		return atomicfile.ReadJSON(path, v)
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func writeJSON(cmd *cobra.Command, path string, v any) error {
	if path != "" {
		return atomicfile.WriteJSON(path, v, 0o644)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

