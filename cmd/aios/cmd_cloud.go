package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"aios/internal/celestial"
)

var cloudCmd = &cobra.Command{
	Use:   "cloud",
	Short: "Emotion cloud commands (add, list, nearest)",
}

var cloudAddCmd = &cobra.Command{
	Use:   "add [id] [x] [y] [z] [r] [g] [b] [a] [intensity] [shape]",
	Short: "Store an emotion cloud in the celestial memory",
	Args:  cobra.ExactArgs(10),
	RunE: func(cmd *cobra.Command, args []string) error {
		cloud, err := cloudFromArgs(args)
		if err != nil {
			return err
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.hal.Memory.StoreCloud(cmd.Context(), cloud); err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(cloud)
		}
		fmt.Println("Emotion cloud stored.")
		return nil
	},
}

var cloudListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored emotion clouds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		clouds, err := rt.hal.Memory.ListClouds(cmd.Context())
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(clouds)
		}
		if len(clouds) == 0 {
			fmt.Println("No emotion clouds stored")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Position", "Color", "Intensity", "Shape")
		for _, c := range clouds {
			table.Append(c.ID, fmtPosition(c.Position),
				fmt.Sprintf("[%d,%d,%d,%d]", c.Color[0], c.Color[1], c.Color[2], c.Color[3]),
				fmt.Sprintf("%.2f", c.Intensity), c.Shape)
		}
		return table.Render()
	},
}

var cloudNearestCmd = &cobra.Command{
	Use:   "nearest [x] [y] [z] [k]",
	Short: "Find the k clouds nearest a position (k defaults to 3)",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pos [3]float32
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(args[i], 32)
			if err != nil {
				return fmt.Errorf("invalid coordinate %q", args[i])
			}
			pos[i] = float32(f)
		}
		k := 3
		if len(args) == 4 {
			n, err := strconv.Atoi(args[3])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid k %q", args[3])
			}
			k = n
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		matches, err := rt.hal.Memory.NearestClouds(cmd.Context(), pos, k)
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(matches)
		}
		if len(matches) == 0 {
			fmt.Println("No emotion clouds stored")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Distance", "Position", "Intensity", "Shape")
		for _, m := range matches {
			table.Append(m.Cloud.ID, fmt.Sprintf("%.4f", m.Distance),
				fmtPosition(m.Cloud.Position),
				fmt.Sprintf("%.2f", m.Cloud.Intensity), m.Cloud.Shape)
		}
		return table.Render()
	},
}

func cloudFromArgs(args []string) (celestial.EmotionCloud, error) {
	cloud := celestial.EmotionCloud{ID: args[0], Shape: args[9]}
	for i, raw := range args[1:4] {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return celestial.EmotionCloud{}, fmt.Errorf("invalid coordinate %q", raw)
		}
		cloud.Position[i] = float32(f)
	}
	for i, raw := range args[4:8] {
		n, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return celestial.EmotionCloud{}, fmt.Errorf("invalid color channel %q", raw)
		}
		cloud.Color[i] = uint8(n)
	}
	f, err := strconv.ParseFloat(args[8], 32)
	if err != nil {
		return celestial.EmotionCloud{}, fmt.Errorf("invalid intensity %q", args[8])
	}
	cloud.Intensity = float32(f)
	return cloud, nil
}

func fmtPosition(pos [3]float32) string {
	return fmt.Sprintf("[%.2f, %.2f, %.2f]", pos[0], pos[1], pos[2])
}

func init() {
	cloudCmd.AddCommand(cloudAddCmd)
	cloudCmd.AddCommand(cloudListCmd)
	cloudCmd.AddCommand(cloudNearestCmd)
}
