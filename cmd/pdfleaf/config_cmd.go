package main

import (
	"fmt"

	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
	"github.com/rodrigonormandia/go-pdfleaf/internal/yamlutil"
)

// runConfig prints the effective configuration with secrets masked.
// 'pdfleaf config paths [name]' lists where a config name is searched.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if len(positional) > 0 && positional[0] == "paths" {
		name := "pdfleaf"
		if len(positional) > 1 {
			name = positional[1]
		}
		for _, p := range config.SearchPaths(name) {
			fmt.Fprintln(env.Stdout, p)
		}
		return nil
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config %s", ErrUnknownCommand, positional[0])
	}

	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg.Masked())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
