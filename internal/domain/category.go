package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName   = errors.New("category name is required")
	ErrSelfParent  = errors.New("category cannot be its own parent")
	// ErrParentCycle is returned when a move would put a category under one
	// of its own descendants.
	ErrParentCycle = errors.New("category cannot be moved under its own descendant")
)

// Category is a node in the asset hierarchy. Categories form a forest
// through ParentID; a nil ParentID marks a root.
type Category struct {
	ID       string
	Name     string
	Color    string
	Order    int
	ParentID *string
	Tag      string

	// IsCash categories have no separate cost tracking: their cost basis
	// always equals their latest value.
	IsCash bool
	// IsLiability categories subtract from net worth and stay out of the
	// gross-asset and cost-basis rollups of their ancestors.
	IsLiability bool

	// Bulk valuation entry hints.
	ValuationOrder    int
	IsValuationTarget bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a user controls.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrSelfParent
	}
	return nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// ParentKey returns the parent id, or "" for roots.
func (c *Category) ParentKey() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}
