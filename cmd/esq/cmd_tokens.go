package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/esq/format"
	"github.com/dhamidi/esq/js/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var flags parseFlags
	var outputFormat string
	var hidden bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			source, display, err := readSource(name)
			if err != nil {
				return err
			}

			opts := []parser.LexerOption{parser.LexStrict(cfg.Strict)}
			if cfg.ValidateRegex {
				opts = append(opts, parser.LexRegexValidation())
			}
			tokens, lexErr := parser.Tokenize(source, display, opts...)

			enc, err := format.NewTokenEncoder(outputFormat, os.Stdout, hidden)
			if err != nil {
				return err
			}
			if err := enc.Encode(tokens); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			if lexErr != nil {
				return fmt.Errorf("tokenize %s: %w", display, lexErr)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include whitespace, line terminator and comment tokens")

	return cmd
}
