package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) capacityCmd() *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Print how many characters an image can hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if image == "" {
				return errors.New("please select an image first")
			}
			buf, format, err := LoadImage(image)
			if err != nil {
				return err
			}
			a.log.Debug("image loaded",
				zap.String("path", image),
				zap.String("format", string(format)),
				zap.Int("max_capacity", MaxCapacity(buf)),
			)
			fmt.Fprintf(a.stdout, "%d\n", MaxAllowed(buf))
			return nil
		},
	}
	cmd.Flags().StringVarP(&image, "image", "i", "", "image to inspect")
	return cmd
}
