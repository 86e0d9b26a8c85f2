package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *barcoder.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *barcoder.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive order sticker screen",
		UsageText:   "barcoder tui",
		Description: "Pick a sales order, choose lines and quantities, and generate stickers.",
		Action:      cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	p := tea.NewProgram(
		tui.New(cmd.app),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
