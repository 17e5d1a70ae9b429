package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/vbio/vbe"
)

func newDecodeCmd() *cobra.Command {
	var typ string

	decodeCmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode hex input and print one value per line",
		Long: `Decode a hex string holding values of one type and print each value on
its own line. Whitespace in the input is ignored.

Example:
  vbio decode --type int32 007f8001ffffffff0f`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkValueType(typ); err != nil {
				return err
			}

			data, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}

			out := cmd.OutOrStdout()
			r := vbe.NewArrayReader(data)
			for i := 0; r.Available() > 0; i++ {
				s, err := decodeValue(r, typ)
				if err != nil {
					return fmt.Errorf("value %d: %w", i, err)
				}
				if _, err := fmt.Fprintln(out, s); err != nil {
					return err
				}
			}

			return nil
		},
	}
	decodeCmd.Flags().StringVarP(&typ, "type", "t", "int32", "Value type: int16, int32, int64, fixed32, fixed64, utf")

	return decodeCmd
}
