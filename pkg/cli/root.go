package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet

	out io.Writer
}

// NewRootCommand creates the root command writing to stdout
func NewRootCommand() *Command {
	return NewRootCommandWithOutput(os.Stdout)
}

// NewRootCommandWithOutput creates the root command writing reports to out
func NewRootCommandWithOutput(out io.Writer) *Command {
	root := &Command{
		Name:        "inclint",
		Description: "inclint - include directive ordering linter for C-family sources",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("inclint", flag.ContinueOnError),
		out:         out,
	}

	root.Subcommands["lint"] = newLintCommand(out)
	root.Subcommands["rules"] = newRulesCommand(out)
	root.Subcommands["init"] = newInitCommand(out)

	return root
}

// Execute runs the command with the process arguments
func (c *Command) Execute() error {
	return c.ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the command with args
func (c *Command) ExecuteArgs(args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(c.out, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(c.out, "Commands:\n")
	for _, name := range names {
		fmt.Fprintf(c.out, "  %-15s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
