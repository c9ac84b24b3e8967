package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/esq/format"
	"github.com/dhamidi/esq/js/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var flags parseFlags
	var outputFormat string
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a source file and dump the syntax tree",
		Long: `Parse a source file and dump the concrete syntax tree.

Reads from stdin when no file is given or the file is "-".
With --recover the tree is printed even when there are syntax errors;
the errors are reported on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = outputFormat
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			source, display, err := readSource(name)
			if err != nil {
				return err
			}

			opts := append(cfg.ParserOptions(), parser.WithFile(display))
			var p *parser.Parser
			if expression {
				p = parser.ParseExpression(bytes.NewReader(source), opts...)
			} else {
				p = parser.ParseProgram(bytes.NewReader(source), opts...)
			}
			node, parseErr := p.Finish()
			if node == nil {
				return fmt.Errorf("parse %s: %w", display, parseErr)
			}

			enc, err := format.NewEncoder(cfg.Format, os.Stdout, p.IncludesPositions())
			if err != nil {
				return err
			}
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode %s: %w", cfg.Format, err)
			}

			if comments := p.Comments(); len(comments) > 0 {
				commentFormat := "line"
				if cfg.Format == "json" {
					commentFormat = "json"
				}
				tokEnc, err := format.NewTokenEncoder(commentFormat, os.Stdout, true)
				if err != nil {
					return err
				}
				if err := tokEnc.Encode(comments); err != nil {
					return fmt.Errorf("encode comments: %w", err)
				}
			}
			log.Debugf("parsed %s: %d bytes", display, len(source))
			if parseErr != nil {
				return fmt.Errorf("parse %s: %w", display, parseErr)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse a single expression instead of a program")

	return cmd
}
