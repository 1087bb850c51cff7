package viewer

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates a full-screen program showing doc. Send DocumentMsg
// values to it to replace the document while it runs.
func NewProgram(doc Document, opts Options, programOpts ...tea.ProgramOption) *tea.Program {
	all := append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)

	return tea.NewProgram(New(doc, opts), all...)
}

// Run shows p until the user quits or ctx is done.
func Run(ctx context.Context, p *tea.Program) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run viewer: %w", err)
	}

	return nil
}
