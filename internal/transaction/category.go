package transaction

import "fmt"

var categories = []Category{
	CategorySalary,
	CategoryFood,
	CategoryTransport,
	CategoryLeisure,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategorySalary:    "Salário",
	CategoryFood:      "Alimentação",
	CategoryTransport: "Transporte",
	CategoryLeisure:   "Lazer",
	CategoryHealth:    "Saúde",
	CategoryEducation: "Educação",
	CategoryOther:     "Outros",
}

// Categories returns every valid category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}

	return string(c)
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}

	return c, nil
}

// Valid reports whether k is income or expense.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Label returns the human-readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Receita"
	case KindExpense:
		return "Despesa"
	}

	return string(k)
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind: %q", s)
	}

	return k, nil
}
