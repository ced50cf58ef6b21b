package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// app is the state shared by the commands once flags, .env and config files
// have been resolved.
type app struct {
	cfg    config
	log    *slog.Logger
	cwd    string
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "ghaml [flags] [paths...]",
		Short: "Generates one *.haml.go file next to each *.haml source.",
		Long: `Generates one *.haml.go file next to each *.haml source.

Paths behave like Go patterns:
  - ./...         recurse from cwd
  - ./dir         only that directory (non-recursive)
  - ./dir/...     recurse from that directory
  - ./file.haml   only that file

Settings are read from flags, GHAML_* environment variables (a .env file in the
module root is loaded first) and an optional .ghaml.yaml in the module root.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return a.generate(args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String(keyRoot, "", "module root (defaults to auto-detected go.mod parent from cwd)")
	pf.String(keyPackage, "", "package clause of generated files (defaults to the package of sibling Go files)")
	pf.String(keyDataType, "any", "type of the data parameter of render functions")
	pf.Int(keyIndent, 2, "spaces per nesting level")
	pf.Bool(keyStrict, false, "reject element names that are not HTML tags")
	pf.StringSlice(keyImports, nil, "extra import paths for generated files")
	pf.BoolP(keyVerbose, "v", false, "log every file processed")

	root.Flags().String(keyDir, "", "if set, only generate for this directory (non-recursive). Useful with go:generate.")

	root.AddCommand(newRenderCmd(a))
	return root
}
