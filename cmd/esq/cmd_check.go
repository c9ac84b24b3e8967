package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dhamidi/esq/js/codebase"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var flags parseFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax errors in source files",
		Long: `Parse every file and report lexical and syntax errors as
file:line:column: message.

Without arguments the include globs from esq.yaml are checked.
With --watch the files are checked again whenever they change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = cfg.Files()
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no files to check (include: %v)", cfg.Include)
			}

			cb := codebase.New(cfg.BaseDir, cfg.ParserOptions()...)
			failed := 0
			for _, file := range files {
				source, display, err := readSource(file)
				if err != nil {
					return err
				}
				cb.UpdateFile(display, source)
				failed += report(os.Stdout, cb, display)
			}

			if watch {
				return watchFiles(cmd.Context(), cb, files)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(files))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check files when they change")

	return cmd
}

// report prints the diagnostics of path and returns 1 if there were any.
func report(w io.Writer, cb *codebase.Codebase, path string) int {
	diags := cb.Diagnostics(path)
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", path, d.Span.Start.Line, d.Span.Start.Column, d.Message)
	}
	if len(diags) > 0 {
		return 1
	}
	return 0
}

// reportChanges returns a watcher callback that reports the diagnostics of
// changed paths among files. Paths are compared in cleaned form.
func reportChanges(out io.Writer, cb *codebase.Codebase, files []string) func(string) {
	watched := make(map[string]bool, len(files))
	for _, file := range files {
		watched[filepath.Clean(file)] = true
	}
	return func(path string) {
		path = filepath.Clean(path)
		if !watched[path] {
			return
		}
		if report(out, cb, path) == 0 {
			fmt.Fprintf(out, "%s: ok\n", path)
		}
	}
}

func watchFiles(ctx context.Context, cb *codebase.Codebase, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := codebase.NewFileWatcher(cb)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for _, file := range files {
		// editors often replace files, so watch the directory
		dir := filepath.Dir(file)
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.OnChange = reportChanges(os.Stdout, cb, files)
	w.Start()
	log.Noticef("watching %d files", len(files))

	<-ctx.Done()
	return w.Stop()
}
