package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is overridable at build time with -ldflags.
var Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the AiOS version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			return printJSON(map[string]string{
				"version": Version,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			})
		}
		fmt.Printf("aios %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
