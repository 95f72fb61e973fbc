package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/holdings/internal/repository"
)

// resolveCategoryID resolves a category identifier which can be:
//   - A full UUID or an exact name
//   - A UUID prefix, when it matches exactly one category
func resolveCategoryID(ctx context.Context, app *App, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("category is required")
	}

	c, err := app.Categories.Resolve(ctx, input)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	cats, err := app.Categories.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, c := range cats {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("category not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("category ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
