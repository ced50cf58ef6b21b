package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyRoot     = "root"
	keyDir      = "dir"
	keyPackage  = "package"
	keyDataType = "data-type"
	keyIndent   = "indent"
	keyStrict   = "strict"
	keyImports  = "imports"
	keyVerbose  = "verbose"
)

type config struct {
	Root     string
	Dir      string
	Package  string
	DataType string
	Indent   int
	Strict   bool
	Imports  []string
	Verbose  bool
}

// setup resolves the module root, loads its .env and .ghaml.yaml and builds the
// logger. Flags set on the command line win over the environment, which wins
// over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	a.cwd = cwd

	root, err := cmd.Flags().GetString(keyRoot)
	if err != nil {
		return err
	}
	if root == "" {
		root = os.Getenv("GHAML_ROOT")
	}
	if root == "" {
		root, err = findModuleRoot(cwd)
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ghaml: loading .env: %w", err)
	}

	v, err := loadConfig(root, cmd)
	if err != nil {
		return err
	}
	a.cfg = config{
		Root:     root,
		Dir:      v.GetString(keyDir),
		Package:  v.GetString(keyPackage),
		DataType: v.GetString(keyDataType),
		Indent:   v.GetInt(keyIndent),
		Strict:   v.GetBool(keyStrict),
		Imports:  v.GetStringSlice(keyImports),
		Verbose:  v.GetBool(keyVerbose),
	}

	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.log.Debug("configured", "root", root, "config", v.ConfigFileUsed())
	return nil
}

func loadConfig(root string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(".ghaml")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	v.SetEnvPrefix("GHAML")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ghaml: reading config: %w", err)
		}
	}
	return v, nil
}

func findModuleRoot(start string) (string, error) {
	d := start
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}
