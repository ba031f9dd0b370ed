package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/device"
)

func newDiscoverCmd(flags *globalFlags) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Enumerate attached HID devices matching the configured wheel or G29",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			physical, err := device.Discover(cfg.Physical.VendorID, cfg.Physical.ProductID)
			if err != nil {
				return err
			}
			virtual, err := device.Discover(cfg.Virtual.VendorID, cfg.Virtual.ProductID)
			if err != nil {
				return err
			}

			if len(physical) == 0 {
				fmt.Println("no Thrustmaster wheel found")
			}
			for _, d := range physical {
				printDevice("physical wheel", d, detailed)
			}

			if len(virtual) > 0 {
				fmt.Println("warning: a real G29 is already attached — its reports may collide with the virtual device")
			}
			for _, d := range virtual {
				printDevice("existing G29", d, detailed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "print manufacturer/product/serial/path")
	return cmd
}

func printDevice(label string, d device.Info, detailed bool) {
	fmt.Printf("%s: vid=%04x pid=%04x\n", label, d.VendorID, d.ProductID)
	if !detailed {
		return
	}
	fmt.Printf("  manufacturer: %s\n  product: %s\n  serial: %s\n  path: %s\n",
		d.Manufacturer, d.Product, d.SerialNumber, d.Path)
}
