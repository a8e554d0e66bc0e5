package main

import "fmt"

// runConfigCmd prints the effective configuration as YAML.
func runConfigCmd(args []string, env *Environment) error {
	flags, rest, err := parseCommonFlags("config", args, env.Stderr, printConfigUsage)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}

	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
