package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kilianc/ghaml/internal/ghaml/compile"
)

func newRenderCmd(a *app) *cobra.Command {
	var goOut bool
	cmd := &cobra.Command{
		Use:   "render <file.haml>",
		Short: "Compiles one template and prints its HTML, or its Go code when it is dynamic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.render(args[0], goOut)
		},
	}
	cmd.Flags().BoolVar(&goOut, "go", false, "always print the generated Go file")
	return cmd
}

func (a *app) render(pth string, goOut bool) error {
	if !filepath.IsAbs(pth) {
		pth = filepath.Join(a.cwd, pth)
	}
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	opts := a.options(filepath.Dir(pth))

	if goOut {
		src, err := compile.CompileFile(pth, b, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", pth, err)
		}
		_, err = a.stdout.Write(src)
		return err
	}

	opts.Func = compile.FuncName(pth)
	res, err := compile.CompileString(string(b), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}
	a.log.Debug("compiled", "file", a.rel(pth), "static", res.Static)
	if res.Static {
		_, err = io.WriteString(a.stdout, res.HTML+"\n")
		return err
	}
	_, err = a.stdout.Write(res.Code)
	return err
}
