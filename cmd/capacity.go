package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"steganography/carrier"
)

func newCapacityCmd() *cobra.Command {
	var imagePath string

	capacityCmd := &cobra.Command{
		Use:   "capacity",
		Short: "Print how many bytes an image can hide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := carrier.DecodeFile(imagePath)
			if err != nil {
				return fmt.Errorf("unable to read image file: %w", err)
			}
			info := c.Info()

			wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(wtr, "Format\tWidth\tHeight\tChannels\tEligible\tSlots\tCapacity (Bytes)")
			fmt.Fprintln(wtr, "------\t-----\t------\t--------\t--------\t-----\t----------------")
			fmt.Fprintf(wtr, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
				info.Format, info.Width, info.Height, info.Channels, info.EligibleChannels, info.Slots, info.CapacityBytes)
			return wtr.Flush()
		},
	}

	capacityCmd.Flags().StringVar(&imagePath, "image", "", "carrier image")
	_ = capacityCmd.MarkFlagRequired("image")

	return capacityCmd
}
