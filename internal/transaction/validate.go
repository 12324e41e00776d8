package transaction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Violation rules.
const (
	RuleRequired  = "required"
	RuleMaxLength = "max_length"
	RuleEnum      = "enum"
	RulePositive  = "positive"
	RulePrecision = "precision"
	RuleOrder     = "order"
	RuleOwner     = "owner"
)

// Validate checks a candidate against every transaction rule and reports all
// violations at once. The candidate is returned unchanged when valid.
func Validate(c Candidate) (Candidate, error) {
	violations := candidateViolations(c)
	if len(violations) > 0 {
		return Candidate{}, &ValidationError{Violations: violations}
	}

	return c, nil
}

// ValidateTransaction checks a fully assigned transaction, including the fields
// the ledger owns.
func ValidateTransaction(t Transaction) error {
	violations := candidateViolations(CandidateOf(t))

	if t.ID == uuid.Nil {
		violations = append(violations, Violation{Field: "id", Rule: RuleRequired, Message: "id is required"})
	}

	if t.CreatedAt.IsZero() {
		violations = append(violations, Violation{Field: "created_at", Rule: RuleRequired, Message: "creation time is required"})
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		violations = append(violations, Violation{Field: "updated_at", Rule: RuleOrder, Message: "update time precedes creation time"})
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	return nil
}

func candidateViolations(c Candidate) []Violation {
	var out []Violation

	if !c.Kind.Valid() {
		out = append(out, Violation{
			Field:   "kind",
			Rule:    RuleEnum,
			Message: fmt.Sprintf("kind must be %q or %q", KindIncome, KindExpense),
		})
	}

	switch n := utf8.RuneCountInString(c.Description); {
	case strings.TrimSpace(c.Description) == "":
		out = append(out, Violation{Field: "description", Rule: RuleRequired, Message: "description is required"})
	case n > MaxDescriptionLength:
		out = append(out, Violation{
			Field:   "description",
			Rule:    RuleMaxLength,
			Message: fmt.Sprintf("description is too long (max %d characters)", MaxDescriptionLength),
		})
	}

	if !c.Category.Valid() {
		out = append(out, Violation{Field: "category", Rule: RuleEnum, Message: "unknown category"})
	}

	if !c.Amount.IsPositive() {
		out = append(out, Violation{Field: "amount", Rule: RulePositive, Message: "amount must be positive"})
	} else if !c.Amount.Equal(c.Amount.Round(2)) {
		out = append(out, Violation{Field: "amount", Rule: RulePrecision, Message: "amount must have at most 2 decimal places"})
	}

	if c.OccurredOn.IsZero() {
		out = append(out, Violation{Field: "occurred_on", Rule: RuleRequired, Message: "date is required"})
	}

	if strings.TrimSpace(c.OwnerID) == "" {
		out = append(out, Violation{Field: "owner_id", Rule: RuleRequired, Message: "owner is required"})
	}

	return out
}
