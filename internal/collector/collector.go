// Package collector provides the terminal form that captures invoice
// records and saves them as JSON.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the form on the terminal behind in and out until the user
// quits, and returns the paths of the records saved meanwhile.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) ([]string, error) {
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return m.Saved(), ctx.Err()
		}
		return m.Saved(), fmt.Errorf("running form: %w", err)
	}

	if fm, ok := final.(*Model); ok {
		return fm.Saved(), nil
	}
	return m.Saved(), nil
}
