package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"steganography/pipeline"
)

func newHideCmd() *cobra.Command {
	var opts pipeline.HideOptions

	hideCmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide a text file inside an image",
		Long: `hide writes a copy of the image with the text file embedded in the least
significant bits of its color channels. The destination format follows the
destination extension and must be lossless (png, bmp, tiff, or wav for WAV
carriers).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pipeline.Hide(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Destination)
			return nil
		},
	}

	hideCmd.Flags().StringVar(&opts.ImagePath, "image", "", "carrier image")
	hideCmd.Flags().StringVar(&opts.TextPath, "text", "", "text file to hide")
	hideCmd.Flags().StringVarP(&opts.Destination, "destination", "d", "", "output image (default doctored_<image> next to the image)")
	hideCmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite the destination if it exists")
	_ = hideCmd.MarkFlagRequired("image")
	_ = hideCmd.MarkFlagRequired("text")

	return hideCmd
}
