package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/contract"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// holdingsHuhTheme styles huh forms with the formatter palette.
func holdingsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// bulkValuationForm asks for one balance per target, in target order.
// Answers land in inputs, which must have one slot per target.
func bulkValuationForm(targets []*domain.Category, m formatter.Money, inputs []string) *huh.Form {
	fields := make([]huh.Field, 0, len(targets))
	for i, c := range targets {
		fields = append(fields, huh.NewInput().
			Title(c.Name).
			Description("Current balance in "+m.Code()).
			Placeholder("blank to skip").
			Value(&inputs[i]).
			Validate(validateOptionalValue))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(holdingsHuhTheme()).
		WithShowHelp(false)
}

// promptBulkValues runs the bulk valuation form. Tests swap it out.
var promptBulkValues = func(ctx context.Context, targets []*domain.Category, m formatter.Money) ([]string, error) {
	inputs := make([]string, len(targets))
	if err := bulkValuationForm(targets, m, inputs).RunWithContext(ctx); err != nil {
		return nil, err
	}
	return inputs, nil
}

func validateOptionalValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseValue(s)
	return err
}

// bulkEntriesFromInputs pairs form answers with their targets. Blank
// answers are skipped.
func bulkEntriesFromInputs(targets []*domain.Category, inputs []string) ([]contract.BulkValuationEntry, error) {
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("got %d answers for %d valuation targets", len(inputs), len(targets))
	}
	var entries []contract.BulkValuationEntry
	for i, c := range targets {
		if strings.TrimSpace(inputs[i]) == "" {
			continue
		}
		v, err := parseValue(inputs[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		entries = append(entries, contract.BulkValuationEntry{CategoryID: c.ID, Value: v})
	}
	return entries, nil
}
