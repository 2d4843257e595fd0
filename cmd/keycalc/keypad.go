package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/keycalc/internal/tui"
	"github.com/zephyrtronium/keycalc/keypad"
)

func newKeypadCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Run an interactive keypad calculator",
		Long: `Keypad shows a calculator keypad in the terminal.

Type digits and operators or move between buttons with the arrow keys and
press space. Enter or = evaluates, backspace deletes, delete clears, and
esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.parseOptions()
			if err != nil {
				return err
			}
			return tui.Run(keypad.New(opts...),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
		},
	}
}
