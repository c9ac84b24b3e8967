package main

import (
	"github.com/dhamidi/esq/config"
	"github.com/spf13/cobra"
)

// parseFlags are the parser settings shared by parse, tokens, check and repl.
// Flags given on the command line override esq.yaml.
type parseFlags struct {
	strict        bool
	comments      bool
	positions     bool
	recover       bool
	validateRegex bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", true, "treat strict mode reserved words as keywords")
	cmd.Flags().BoolVar(&f.comments, "comments", false, "collect comments")
	cmd.Flags().BoolVar(&f.positions, "positions", true, "include token positions in output")
	cmd.Flags().BoolVar(&f.recover, "recover", false, "keep parsing after syntax errors")
	cmd.Flags().BoolVar(&f.validateRegex, "validate-regex", false, "check regular expression literal bodies")
}

func (f *parseFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
	if flags.Changed("comments") {
		cfg.Comments = f.comments
	}
	if flags.Changed("positions") {
		cfg.Positions = f.positions
	}
	if flags.Changed("recover") {
		cfg.Recover = f.recover
	}
	if flags.Changed("validate-regex") {
		cfg.ValidateRegex = f.validateRegex
	}
}

// settings loads esq.yaml and applies the command line overrides.
func (f *parseFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	f.apply(cmd, cfg)
	return cfg, nil
}
