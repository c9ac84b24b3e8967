package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/esq/config"
	"github.com/dhamidi/esq/format"
	"github.com/dhamidi/esq/js/parser"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	replPrompt             = "esq> "
	replContinuationPrompt = "...> "
)

func newReplCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse input interactively",
		Long: `Read source text line by line and print its syntax tree.

Input with unclosed braces continues on the next line. Commands:

  :tree        print the indented tree (default)
  :json        print the tree as JSON
  :tokens      print the token stream
  :strict on   switch strict mode on or off
  :help        list commands`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			cfg.Format = "tree"
			cfg.Recover = true
			return runRepl(cfg, os.Stdout)
		},
	}

	flags.register(cmd)
	return cmd
}

func historyPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "esq", "history")
}

func runRepl(cfg *config.Config, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), 0755); err != nil {
			log.Warningf("history: %s", err)
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "esq %s, :help for commands, Ctrl+D to quit\n", version)

	mode := "tree"
	var buffer strings.Builder
	for {
		prompt := replPrompt
		if buffer.Len() > 0 {
			prompt = replContinuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buffer.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			mode = replCommand(trimmed, mode, cfg, out)
			continue
		}
		if buffer.Len() == 0 && trimmed == "" {
			continue
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)
		src := buffer.String()

		if needsMoreInput(src, cfg) {
			continue
		}
		line.AppendHistory(src)
		buffer.Reset()
		evalInput(src, mode, cfg, out)
	}
}

func replCommand(command, mode string, cfg *config.Config, out io.Writer) string {
	fields := strings.Fields(command)
	switch fields[0] {
	case ":tree", ":json", ":tokens":
		return strings.TrimPrefix(fields[0], ":")
	case ":strict":
		if len(fields) == 2 {
			cfg.Strict = fields[1] == "on"
		}
		fmt.Fprintf(out, "strict mode: %v\n", cfg.Strict)
	case ":help":
		fmt.Fprintln(out, ":tree  :json  :tokens  :strict on|off  :help")
	default:
		fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return mode
}

// needsMoreInput reports whether src ends inside an open brace, bracket or
// template.
func needsMoreInput(src string, cfg *config.Config) bool {
	p := parser.ParseProgram(strings.NewReader(src), parser.WithStrict(cfg.Strict))
	_, err := p.Finish()
	if err == nil {
		return false
	}
	if p.BraceDepth() > 0 {
		return true
	}
	var lexErr *parser.LexicalError
	return errors.As(err, &lexErr) && lexErr.Kind == parser.LexUnterminatedTemplate
}

func evalInput(src, mode string, cfg *config.Config, out io.Writer) {
	if mode == "tokens" {
		tokens, err := parser.Tokenize([]byte(src), "", parser.LexStrict(cfg.Strict))
		format.NewTokenLineEncoder(out).Encode(tokens)
		if err != nil {
			fmt.Fprintln(out, err)
		}
		return
	}

	p := parser.ParseProgram(strings.NewReader(src), cfg.ParserOptions()...)
	node, err := p.Finish()
	if node != nil {
		enc, encErr := format.NewEncoder(mode, out, false)
		if encErr == nil {
			encErr = enc.Encode(node)
		}
		if encErr != nil {
			fmt.Fprintln(out, encErr)
		}
	}
	var list parser.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintln(out, e)
		}
	} else if err != nil {
		fmt.Fprintln(out, err)
	}
}
