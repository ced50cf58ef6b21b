package main

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/kilianc/ghaml/internal/ghaml/compile"
	"github.com/kilianc/ghaml/internal/ghaml/outfile"
)

const ext = ".haml"

func (a *app) generate(patterns []string) error {
	if strings.TrimSpace(a.cfg.Dir) != "" && len(patterns) != 0 {
		return fmt.Errorf("ghaml: cannot use --dir with positional paths")
	}

	if strings.TrimSpace(a.cfg.Dir) != "" {
		dir := a.cfg.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(a.cwd, dir)
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		return a.generateDir(dir)
	}

	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	paths, err := collectPaths(a.cwd, patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		a.log.Debug("no templates found", "patterns", patterns)
		return nil
	}

	sort.Strings(paths)
	var allErr error
	for _, pth := range paths {
		if err := a.generateFile(pth); err != nil {
			allErr = errors.Join(allErr, err)
		}
	}
	return allErr
}

func (a *app) generateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	for _, pth := range paths {
		if err := a.generateFile(pth); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) generateFile(pth string) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	src, err := compile.CompileFile(pth, b, a.options(filepath.Dir(pth)))
	if err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}
	outPath := outfile.GeneratedPath(pth)
	wrote, err := outfile.WriteGeneratedFile(outPath, src)
	if err != nil {
		return err
	}
	if wrote {
		a.log.Info("generated", "file", a.rel(outPath))
	} else {
		a.log.Debug("unchanged", "file", a.rel(outPath))
	}
	return nil
}

// options builds the compile options for templates in dir.
func (a *app) options(dir string) compile.Options {
	pkg := a.cfg.Package
	if pkg == "" {
		pkg = detectPackage(dir)
	}
	return compile.Options{
		IndentWidth: a.cfg.Indent,
		Package:     pkg,
		DataType:    a.cfg.DataType,
		Imports:     a.cfg.Imports,
		StrictTags:  a.cfg.Strict,
	}
}

func (a *app) rel(p string) string {
	if r, err := filepath.Rel(a.cfg.Root, p); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return p
}

// detectPackage returns the package of the hand-written Go files in dir, or a
// name derived from the directory when there are none.
func detectPackage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err == nil {
		fset := token.NewFileSet()
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, ext+".go") {
				continue
			}
			f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
			if err == nil {
				return f.Name.Name
			}
		}
	}

	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, filepath.Base(dir))
	if !token.IsIdentifier(name) {
		return compile.DefaultOptions().Package
	}
	return name
}

func collectPaths(cwd string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) error {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		// Recursive pattern: <dir>/...
		if strings.HasSuffix(pat, "/...") || pat == "..." {
			base := strings.TrimSuffix(strings.TrimSuffix(pat, "..."), "/")
			if base == "" {
				base = "."
			}
			dir := base
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			if err := walkTemplates(dir, add); err != nil {
				return nil, err
			}
			continue
		}

		// Non-recursive: file.haml or directory.
		target := pat
		if !filepath.IsAbs(target) {
			target = filepath.Join(cwd, target)
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
					if err := add(filepath.Join(target, e.Name())); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		if !strings.HasSuffix(target, ext) {
			return nil, fmt.Errorf("ghaml: not a %s file: %s", ext, target)
		}
		if err := add(target); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func walkTemplates(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if path != root && (name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(de.Name(), ext) {
			return add(path)
		}
		return nil
	})
}
