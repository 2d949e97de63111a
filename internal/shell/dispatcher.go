// Package shell implements the AiOS command dispatcher. The dispatcher
// owns no terminal: it prints through a Console and reports pending
// confirmations back to the caller, so the same code drives both the
// interactive REPL and the tests.
package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"aios/internal/hal"
	"aios/internal/hal/tensor"
	"aios/internal/logging"
	"aios/internal/modules"
	"aios/internal/osfs"
)

// Confirmation is a pending y/N question. The REPL shows Prompt, feeds the
// next input line to Resolve, and carries on with the Result that returns.
type Confirmation struct {
	Prompt  string
	resolve func(confirmed bool) Result
}

// Resolve interprets answer ("y" or "Y" confirms, anything else declines)
// and resumes the interrupted command.
func (c *Confirmation) Resolve(answer string) Result {
	return c.resolve(strings.EqualFold(strings.TrimSpace(answer), "y"))
}

// Result is the outcome of dispatching one input line.
type Result struct {
	Quit    bool
	Confirm *Confirmation
}

// Dispatcher routes input lines to command handlers. Output goes to the
// console; file access goes through the FileSystem so tests can observe
// both.
type Dispatcher struct {
	fs       osfs.FileSystem
	console  osfs.Console
	hal      *hal.HAL
	registry *modules.Registry
}

func NewDispatcher(fs osfs.FileSystem, console osfs.Console, h *hal.HAL, reg *modules.Registry) *Dispatcher {
	return &Dispatcher{fs: fs, console: console, hal: h, registry: reg}
}

func (d *Dispatcher) print(format string, args ...interface{}) {
	if len(args) == 0 {
		d.console.PrintLine(format)
		return
	}
	d.console.PrintLine(fmt.Sprintf(format, args...))
}

// Dispatch parses and runs one input line. Empty input is a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Result {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Result{}
	}
	command, args := fields[0], fields[1:]
	logging.ShellDebug("dispatch %s (%d args)", command, len(args))

	switch command {
	case "exit":
		logging.Shell("session exit requested")
		d.print("Exiting AiOS...")
		return Result{Quit: true}
	case "echo":
		d.print(strings.Join(args, " "))
	case "help":
		d.printHelp()
	case "clear":
		d.print("\x1B[2J\x1B[H")
	case "ls":
		d.cmdLS(args)
	case "cd":
		d.cmdCD(args)
	case "pwd":
		d.cmdPWD(args)
	case "mkdir":
		d.cmdMkdir(args)
	case "rm":
		return d.cmdRM(args)
	case "cat":
		d.cmdCat(args)
	case "register_mod":
		d.cmdRegisterMod(args)
	case "run_mod":
		d.cmdRunMod(args)
	case "verify_mod":
		d.cmdVerifyMod(args)
	case "list_mods":
		d.cmdListMods(args)
	case "emotion_test":
		d.cmdEmotionTest(args)
	case "devices":
		d.cmdDevices(args)
	case "tensor_add":
		d.cmdTensorAdd(args)
	case "celestial_add_cloud":
		d.cmdCloudAdd(ctx, args)
	case "celestial_get_cloud":
		d.cmdCloudGet(ctx, args)
	case "celestial_update_cloud":
		d.cmdCloudUpdate(ctx, args)
	case "celestial_remove_cloud":
		d.cmdCloudRemove(ctx, args)
	case "celestial_list_clouds":
		d.cmdCloudList(ctx, args)
	case "celestial_add_node":
		d.cmdNodeAdd(ctx, args)
	case "celestial_get_node":
		d.cmdNodeGet(ctx, args)
	case "celestial_remove_node":
		d.cmdNodeRemove(ctx, args)
	case "celestial_list_nodes":
		d.cmdNodeList(ctx, args)
	case "celestial_nearest":
		d.cmdNearest(ctx, args)
	default:
		logging.Shell("unknown command %q", command)
		d.print("Unknown command: %s", command)
	}
	return Result{}
}

func (d *Dispatcher) printHelp() {
	d.print("Available commands:")
	d.print("  help                                - Shows this help message.")
	d.print("  echo [args...]                      - Prints the arguments to the console.")
	d.print("  clear                               - Clears the terminal screen.")
	d.print("  ls [path]                           - Lists directory contents (defaults to current directory).")
	d.print("  cd <directory>                      - Changes the current working directory.")
	d.print("  pwd                                 - Prints the current working directory.")
	d.print("  mkdir <directory_path>              - Creates a new directory (including parent directories).")
	d.print("  rm [-r|--recursive] <path1> ...     - Removes files or directories (use -r for directories).")
	d.print("  cat <file1> [file2...]              - Displays the content of one or more files.")
	d.print("  register_mod <filename>             - Calculates hash of a module file in 'modules/' and adds it to the blockchain.")
	d.print("  run_mod <name> [args...]            - Verifies and 'runs' a registered module from 'modules/'.")
	d.print("  verify_mod <name>                   - Checks a registered module against its ledger hash.")
	d.print("  list_mods                           - Lists all ledger entries.")
	d.print("  emotion_test <text_input...>        - Analyzes emotional context of the input text.")
	d.print("  devices                             - Lists hardware devices visible to the HAL.")
	d.print("  tensor_add <a> <b>                  - Adds two comma-separated float vectors.")
	d.print("  celestial_add_cloud <id> <x> ...    - Adds an emotion cloud (see help for full args).")
	d.print("  celestial_get_cloud <id>            - Shows one stored emotion cloud.")
	d.print("  celestial_update_cloud <id> <x> ... - Replaces a stored emotion cloud.")
	d.print("  celestial_remove_cloud <id>         - Removes a stored emotion cloud.")
	d.print("  celestial_list_clouds               - Lists all stored emotion clouds.")
	d.print("  celestial_add_node <id> <x> <y> <z> <ptr> [cloudIDs...] - Adds a resonant node.")
	d.print("  celestial_get_node <id>             - Shows one resonant node.")
	d.print("  celestial_remove_node <id>          - Removes a resonant node.")
	d.print("  celestial_list_nodes                - Lists all resonant nodes.")
	d.print("  celestial_nearest <x> <y> <z> [k]   - Finds the clouds nearest a position.")
	d.print("  exit                                - Exits the AiOS application.")
}

func (d *Dispatcher) cmdLS(args []string) {
	var target string
	if len(args) == 0 {
		cwd, err := d.fs.Getwd()
		if err != nil {
			d.print("Error getting current directory: %v", err)
			return
		}
		target = cwd
	} else {
		target = args[0]
	}

	if !d.fs.PathExists(target) {
		d.print("ls: cannot access '%s': No such file or directory", target)
		return
	}
	if d.fs.IsFile(target) {
		d.print(filepath.Base(target))
		return
	}

	entries, err := d.fs.ListDir(target)
	if err != nil {
		d.print("ls: error listing '%s': %v", target, err)
		return
	}
	for _, e := range entries {
		d.print(e)
	}
}

func (d *Dispatcher) cmdCD(args []string) {
	if len(args) != 1 {
		d.print("Usage: cd <directory>")
		return
	}
	target := args[0]
	if !d.fs.PathExists(target) {
		d.print("cd: no such file or directory: %s", target)
		return
	}
	if err := d.fs.Chdir(target); err != nil {
		d.print("cd: %s: %v", target, err)
	}
}

func (d *Dispatcher) cmdPWD(args []string) {
	if len(args) != 0 {
		d.print("Usage: pwd (no arguments)")
		return
	}
	cwd, err := d.fs.Getwd()
	if err != nil {
		d.print("pwd: error getting current directory: %v", err)
		return
	}
	d.print(cwd)
}

func (d *Dispatcher) cmdMkdir(args []string) {
	if len(args) != 1 {
		d.print("Usage: mkdir <directory_path>")
		return
	}
	dir := args[0]
	if d.fs.PathExists(dir) && d.fs.IsFile(dir) {
		d.print("mkdir: cannot create directory '%s': File exists", dir)
		return
	}
	if err := d.fs.MkdirAll(dir); err != nil {
		d.print("mkdir: cannot create directory '%s': %v", dir, err)
	}
}

func (d *Dispatcher) cmdRM(args []string) Result {
	if len(args) == 0 {
		d.print("Usage: rm [-r|--recursive] <path1> [<path2>...]")
		return Result{}
	}

	var recursive bool
	var paths []string
	for _, a := range args {
		if a == "-r" || a == "--recursive" {
			recursive = true
		} else {
			paths = append(paths, a)
		}
	}
	if len(paths) == 0 {
		d.print("rm: missing operand")
		return Result{}
	}
	return d.removePaths(recursive, paths)
}

// removePaths removes paths in order. When a recursive directory removal
// needs confirmation it returns a pending Confirmation that resumes with
// the remaining paths, so a single rm -r over several directories asks
// once per directory.
func (d *Dispatcher) removePaths(recursive bool, paths []string) Result {
	for i, path := range paths {
		if !d.fs.PathExists(path) {
			d.print("rm: cannot remove '%s': No such file or directory", path)
			continue
		}

		if d.fs.IsDir(path) {
			if !recursive {
				d.print("rm: cannot remove '%s': Is a directory. Use -r to remove directories.", path)
				continue
			}
			rest := paths[i+1:]
			target := path
			return Result{Confirm: &Confirmation{
				Prompt: fmt.Sprintf("Recursively remove directory '%s'? (y/N): ", target),
				resolve: func(confirmed bool) Result {
					if confirmed {
						if err := d.fs.RemoveAll(target); err != nil {
							d.print("rm: cannot remove directory '%s': %v", target, err)
						}
					} else {
						d.print("Not removing directory '%s'", target)
					}
					return d.removePaths(true, rest)
				},
			}}
		}

		if err := d.fs.Remove(path); err != nil {
			d.print("rm: cannot remove file '%s': %v", path, err)
		}
	}
	return Result{}
}

func (d *Dispatcher) cmdCat(args []string) {
	if len(args) == 0 {
		d.print("Usage: cat <file1> [<file2>...]")
		return
	}

	printHeader := len(args) > 1
	for i, path := range args {
		if !d.fs.PathExists(path) {
			d.print("cat: %s: No such file or directory", path)
			continue
		}
		if !d.fs.IsFile(path) {
			d.print("cat: %s: Is not a file (e.g., it's a directory)", path)
			continue
		}
		if printHeader {
			d.print("--- %s ---", path)
		}
		content, err := d.fs.ReadFileString(path)
		if err != nil {
			d.print("cat: %s: %v", path, err)
			continue
		}
		d.print(strings.TrimSuffix(content, "\n"))
		if printHeader && i < len(args)-1 {
			d.print("")
		}
	}
}

func (d *Dispatcher) cmdRegisterMod(args []string) {
	if len(args) != 1 {
		d.print("Usage: register_mod <module_filename>")
		return
	}
	name := args[0]
	if !d.fs.PathExists(d.registry.ModulePath(name)) {
		d.print("Error: Module file '%s' not found.", d.registry.ModulePath(name))
		return
	}
	entry, err := d.registry.Register(name)
	if err != nil {
		d.print("Error registering %s: %v", name, err)
		return
	}
	d.print("Module %s registered with hash: %s", name, entry.Hash)
}

func (d *Dispatcher) cmdRunMod(args []string) {
	if len(args) == 0 {
		d.print("Usage: run_mod <module_name> [args...]")
		return
	}
	name, modArgs := args[0], args[1:]
	if !d.fs.PathExists(d.registry.ModulePath(name)) {
		d.print("Error: Module %s not found at path %s", name, d.registry.ModulePath(name))
		return
	}
	out, err := d.registry.Run(name, modArgs)
	if err != nil {
		d.print("%v", err)
		return
	}
	d.print(out)
}

func (d *Dispatcher) cmdVerifyMod(args []string) {
	if len(args) != 1 {
		d.print("Usage: verify_mod <module_name>")
		return
	}
	name := args[0]
	res, err := d.registry.Verify(name)
	if err != nil {
		d.print("Error verifying %s: %v", name, err)
		return
	}
	switch res.Status {
	case modules.StatusVerified:
		d.print("Module %s verified.", name)
	case modules.StatusMismatch:
		d.print("Module %s integrity check failed! Hashes do not match. Expected: %s, Got: %s", name, res.Want, res.Got)
	default:
		d.print("Module %s not registered in blockchain.", name)
	}
}

func (d *Dispatcher) cmdListMods(args []string) {
	if len(args) != 0 {
		d.print("Usage: list_mods (no arguments)")
		return
	}
	entries := d.registry.List()
	if len(entries) == 0 {
		d.print("No modules registered.")
		return
	}
	d.print("Registered modules:")
	for _, e := range entries {
		d.print("- %s: %s", e.ModuleName, e.Hash)
	}
}

func (d *Dispatcher) cmdEmotionTest(args []string) {
	if len(args) == 0 {
		d.print("Usage: emotion_test <text_input...>")
		return
	}
	analysis, err := d.hal.Emotion.Analyze(strings.Join(args, " "))
	if err != nil {
		d.print("Error analyzing emotion: %v", err)
		return
	}
	d.print("Emotional Analysis: Primary: %s, Intensity: %v", analysis.Emotion, analysis.Intensity)
}

func (d *Dispatcher) cmdDevices(args []string) {
	if len(args) != 0 {
		d.print("Usage: devices (no arguments)")
		return
	}
	devices, err := d.hal.Compute.ListDevices()
	if err != nil {
		d.print("Error listing devices: %v", err)
		return
	}
	d.print("Available devices:")
	for _, dev := range devices {
		d.print("- %s (%s): %s", dev.Name, dev.Type, dev.Capabilities)
	}
}

func parseFloatVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(f))
	}
	return out, nil
}

func (d *Dispatcher) cmdTensorAdd(args []string) {
	if len(args) != 2 {
		d.print("Usage: tensor_add <a> <b> (comma-separated floats, e.g. 1,2,3)")
		return
	}
	a, errA := parseFloatVector(args[0])
	b, errB := parseFloatVector(args[1])
	if errA != nil || errB != nil {
		d.print("Error: Invalid number format in tensor operands.")
		return
	}

	ta, err := tensor.FromFloat32s([]int{len(a)}, a)
	if err != nil {
		d.print("Error building tensor: %v", err)
		return
	}
	tb, err := tensor.FromFloat32s([]int{len(b)}, b)
	if err != nil {
		d.print("Error building tensor: %v", err)
		return
	}

	sum, err := d.hal.Tensor.Add(ta, tb)
	if err != nil {
		d.print("Error adding tensors: %v", err)
		return
	}
	vals, err := sum.Float32s()
	if err != nil {
		d.print("Error reading result: %v", err)
		return
	}

	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	d.print("Result: [%s]", strings.Join(strs, ", "))
}
