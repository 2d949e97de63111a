package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List hardware devices visible to the HAL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		devices, err := rt.hal.Compute.ListDevices()
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(devices)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Name", "Type", "Capabilities")
		for _, d := range devices {
			table.Append(d.Name, string(d.Type), d.Capabilities)
		}
		return table.Render()
	},
}
