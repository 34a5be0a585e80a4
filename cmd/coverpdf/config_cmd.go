package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-coverpdf/internal/config"
	"github.com/alnah/go-coverpdf/internal/fileutil"
	"github.com/alnah/go-coverpdf/internal/hints"
	"github.com/alnah/go-coverpdf/internal/yamlutil"
)

// defaultProfile is the profile name used by "config init" without
// arguments.
const defaultProfile = "default"

// runConfig handles "config init" and "config show".
func runConfig(args []string, env *Environment) error {
	if len(args) == 0 {
		printConfigUsage(env.Stdout)
		return nil
	}
	switch args[0] {
	case "init":
		return runConfigInit(args[1:], env)
	case "show":
		return runConfigShow(args[1:], env)
	default:
		return fmt.Errorf("%w: config %s", ErrUnknownCommand, args[0])
	}
}

// runConfigInit writes a sample profile. The target is a path when it
// contains a separator or a YAML extension, otherwise a profile name in
// the user config directory.
func runConfigInit(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printConfigUsage(env.Stderr) }
	force := fs.BoolP("force", "f", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return wrapFlagError(err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: config init takes at most one path", ErrInvalidArgs)
	}

	target := defaultProfile
	if fs.NArg() == 1 {
		target = fs.Arg(0)
	}
	path, err := profilePath(target)
	if err != nil {
		return err
	}

	if err := config.WriteConfig(path, config.SampleConfig(), *force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return withHint(err, hints.ForConfigExists())
		}
		return err
	}
	fmt.Fprintf(env.Stdout, "Wrote %s\n", path)
	fmt.Fprintf(env.Stdout, "Edit it, then run: coverpdf generate --config %s <files...>\n", target)
	return nil
}

// runConfigShow prints a profile as loaded, with defaults applied.
func runConfigShow(args []string, env *Environment) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: config show takes one name or path", ErrInvalidArgs)
	}
	cfg, err := loadProfile(args[0], &envConfig{})
	if err != nil {
		return err
	}
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}

func profilePath(target string) (string, error) {
	lower := strings.ToLower(target)
	if fileutil.IsFilePath(target) || strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return target, nil
	}
	return config.UserConfigPath(target)
}
