// Package categorize learns which category, and optionally which clean
// description, a raw bank description should map to.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

var ErrInvalidRule = errors.New("invalid categorization rule")

// Rule maps every description containing Pattern to Category. A non-empty
// Description replaces the raw text.
type Rule struct {
	Pattern     string
	Category    transaction.Category
	Description string
}

//go:generate mockgen -source=categorize.go -destination=repository_mock.go -package=categorize
type Repository interface {
	// FindMatch returns the most specific rule whose pattern occurs in description.
	FindMatch(ctx context.Context, ownerID, description string) (Rule, bool, error)
	CreateRule(ctx context.Context, ownerID string, r Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the rule that applies to rawDescription, if any.
func (s *Service) Suggest(ctx context.Context, ownerID, rawDescription string) (Rule, bool, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return Rule{}, false, nil
	}

	r, ok, err := s.repo.FindMatch(ctx, ownerID, rawDescription)
	if err != nil {
		return Rule{}, false, fmt.Errorf("finding rule: %w", err)
	}

	return r, ok, nil
}

// Learn remembers a new rule for the owner.
func (s *Service) Learn(ctx context.Context, ownerID string, r Rule) error {
	r.Pattern = strings.TrimSpace(r.Pattern)
	r.Description = strings.TrimSpace(r.Description)

	switch {
	case r.Pattern == "":
		return fmt.Errorf("%w: pattern is required", ErrInvalidRule)
	case !r.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, r.Category)
	case utf8.RuneCountInString(r.Description) > transaction.MaxDescriptionLength:
		return fmt.Errorf("%w: description is too long", ErrInvalidRule)
	}

	if err := s.repo.CreateRule(ctx, ownerID, r); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

// Apply fills in the category and description of c from the matching rule.
// Candidates without a match are returned unchanged.
func (s *Service) Apply(ctx context.Context, ownerID string, c transaction.Candidate) (transaction.Candidate, error) {
	r, ok, err := s.Suggest(ctx, ownerID, c.Description)
	if err != nil || !ok {
		return c, err
	}

	c.Category = r.Category
	if r.Description != "" {
		c.Description = r.Description
	}

	return c, nil
}
