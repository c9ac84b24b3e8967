package main

import (
	"github.com/dhamidi/esq/js/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(version, cfg.ParserOptions()...)
			return server.RunStdio()
		},
	}

	flags.register(cmd)
	return cmd
}
