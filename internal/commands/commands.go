package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

// RunFunc runs a command once its flags are parsed.
type RunFunc func(ctx context.Context) error

// SetupFunc defines a command's flags on fs and returns the function that runs it.
// It is called for every execution, so flag state never leaks between runs.
type SetupFunc func(fs *flag.FlagSet) RunFunc

// Command is a subcommand with a one-line summary.
type Command struct {
	Name    string
	Summary string
	Setup   SetupFunc
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds   map[string]*Command
	Output io.Writer
}

// NewRegistry returns an empty command registry writing usage to out.
func NewRegistry(out io.Writer) *Registry {
	return &Registry{cmds: make(map[string]*Command), Output: out}
}

// Register adds a subcommand.
func (r *Registry) Register(name, summary string, setup SetupFunc) {
	r.cmds[name] = &Command{Name: name, Summary: summary, Setup: setup}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Usage writes the command list.
func (r *Registry) Usage() {
	fmt.Fprintln(r.Output, "usage: crayscene <command> [flags]")
	fmt.Fprintln(r.Output)
	for _, n := range r.Names() {
		fmt.Fprintf(r.Output, "  %-10s %s\n", n, r.cmds[n].Summary)
	}
}

// Parse splits a command line into arguments with shell quoting rules. Blank lines and
// lines starting with # yield ok false.
func Parse(line string) (args []string, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}
	args, err = shellwords.Parse(line)
	if err != nil {
		return nil, false, fmt.Errorf("commands: %w", err)
	}
	return args, len(args) > 0, nil
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from the command itself.
// -h on a command prints its flags and returns nil.
func (r *Registry) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Output)
	run := cmd.Setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return run(ctx)
}

// ExecuteScript runs one command per line of src, stopping at the first failure.
// Errors carry the line number.
func (r *Registry) ExecuteScript(ctx context.Context, src io.Reader) error {
	scanner := bufio.NewScanner(src)
	for n := 1; scanner.Scan(); n++ {
		args, ok, err := Parse(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Execute(ctx, args); err != nil {
			return fmt.Errorf("line %d: %s: %w", n, args[0], err)
		}
	}
	return scanner.Err()
}
