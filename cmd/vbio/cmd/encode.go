package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/vbio/vbe"
)

func newEncodeCmd() *cobra.Command {
	var typ string

	encodeCmd := &cobra.Command{
		Use:   "encode <value>...",
		Short: "Encode values and print them as hex",
		Long: `Encode values of one type and print the concatenated encoding as hex.

Example:
  vbio encode --type int32 0 127 128 -1
  vbio encode --type utf héllo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkValueType(typ); err != nil {
				return err
			}

			w, err := vbe.NewWriter()
			if err != nil {
				return err
			}
			for _, arg := range args {
				if err := encodeValue(w, typ, arg); err != nil {
					return fmt.Errorf("invalid %s value %q: %w", typ, arg, err)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(w.Bytes()))

			return err
		},
	}
	encodeCmd.Flags().StringVarP(&typ, "type", "t", "int32", "Value type: int16, int32, int64, fixed32, fixed64, utf")

	return encodeCmd
}
