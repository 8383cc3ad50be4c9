package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/platinummonkey/inclint/pkg/linter"
)

// newInitCommand writes a default inclint.yaml
func newInitCommand(out io.Writer) *Command {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)

	var (
		dir   = fs.String("dir", ".", "Directory to write inclint.yaml into")
		force = fs.Bool("force", false, "Overwrite an existing config file")
	)

	return &Command{
		Name:        "init",
		Description: "Write a default inclint.yaml",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			path := filepath.Join(*dir, linter.ConfigFileNames[0])
			if _, err := os.Stat(path); err == nil && !*force {
				return fmt.Errorf("%s already exists (use -force to overwrite)", path)
			}
			if err := linter.SaveConfig(linter.DefaultConfig(), path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(out, "Wrote %s\n", path)
			return nil
		},
	}
}
