package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aios/internal/modules"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Module ledger commands (register, verify, list, watch)",
}

var moduleRegisterCmd = &cobra.Command{
	Use:   "register [filename]",
	Short: "Hash a module file and append it to the blockchain ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		entry, err := rt.registry.Register(args[0])
		if err != nil {
			return err
		}
		logger.Info("module registered",
			zap.String("module", entry.ModuleName),
			zap.String("hash", entry.Hash))

		if isJSONOutput() {
			return printJSON(entry)
		}
		fmt.Printf("Module %s registered with hash: %s\n", entry.ModuleName, entry.Hash)
		return nil
	},
}

var moduleVerifyCmd = &cobra.Command{
	Use:   "verify [name]",
	Short: "Check a registered module against its ledger hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.registry.Verify(args[0])
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(res)
		}
		printVerifyResults([]modules.VerifyResult{res})
		return nil
	},
}

var moduleVerifyAllCmd = &cobra.Command{
	Use:   "verify-all",
	Short: "Re-verify every registered module concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		results, err := rt.registry.VerifyAll(cmd.Context())
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Println("No modules registered")
			return nil
		}
		printVerifyResults(results)
		return nil
	},
}

var moduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ledger entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		entries := rt.registry.List()
		if isJSONOutput() {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No modules registered")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Module", "Hash")
		for _, e := range entries {
			table.Append(e.ModuleName, e.Hash)
		}
		return table.Render()
	},
}

var moduleWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the modules directory and re-verify on changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		w, err := modules.NewWatcher(rt.registry)
		if err != nil {
			return err
		}
		defer w.Close()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", rt.registry.Dir())
		for {
			select {
			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				if ev.Result == nil {
					fmt.Printf("%s %s\n", ev.Op, ev.Module)
					continue
				}
				fmt.Printf("%s %s: %s\n", ev.Op, ev.Module, ev.Result.Status)
				if ev.Result.Status == modules.StatusMismatch {
					logger.Warn("module hash mismatch",
						zap.String("module", ev.Module),
						zap.String("want", ev.Result.Want),
						zap.String("got", ev.Result.Got))
				}
			case <-sig:
				return nil
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}
	},
}

func printVerifyResults(results []modules.VerifyResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Module", "Status", "Expected", "Got")
	for _, r := range results {
		table.Append(r.Module, string(r.Status), r.Want, r.Got)
	}
	_ = table.Render()
}

func init() {
	moduleCmd.AddCommand(moduleRegisterCmd)
	moduleCmd.AddCommand(moduleVerifyCmd)
	moduleCmd.AddCommand(moduleVerifyAllCmd)
	moduleCmd.AddCommand(moduleListCmd)
	moduleCmd.AddCommand(moduleWatchCmd)
}
