package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"steganography/pipeline"
)

func newRecoverCmd() *cobra.Command {
	var opts pipeline.RecoverOptions

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a hidden text file from an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pipeline.Recover(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.TextPath)
			return nil
		},
	}

	recoverCmd.Flags().StringVar(&opts.ImagePath, "image", "", "image holding the hidden text")
	recoverCmd.Flags().StringVar(&opts.TextPath, "text", "", "output text file (default recovered_<image stem>.txt next to the image)")
	recoverCmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite the text file if it exists")
	_ = recoverCmd.MarkFlagRequired("image")

	return recoverCmd
}
