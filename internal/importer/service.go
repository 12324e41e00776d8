package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/saldo/internal/importer/cgd"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// Categorizer fills in the category of a freshly parsed candidate.
type Categorizer interface {
	Apply(ctx context.Context, ownerID string, c transaction.Candidate) (transaction.Candidate, error)
}

// Creator records a candidate, typically a *ledger.Store.
type Creator interface {
	Create(ctx context.Context, c transaction.Candidate) (transaction.Transaction, error)
}

type Service struct {
	importers   map[Bank]Importer
	categorizer Categorizer
}

func NewService(categorizer Categorizer) *Service {
	return &Service{
		importers:   map[Bank]Importer{BankCGD: cgd.NewParser()},
		categorizer: categorizer,
	}
}

// Parse reads r with the bank's importer and applies learned categories.
func (s *Service) Parse(ctx context.Context, ownerID string, bank Bank, r io.Reader) ([]transaction.Candidate, error) {
	imp, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	candidates, err := imp.Parse(r)
	if err != nil {
		return nil, err
	}

	if s.categorizer == nil {
		return candidates, nil
	}

	for i, c := range candidates {
		if candidates[i], err = s.categorizer.Apply(ctx, ownerID, c); err != nil {
			return nil, fmt.Errorf("categorizing %q: %w", c.Description, err)
		}
	}

	return candidates, nil
}

// Rejected is a parsed row the ledger refused.
type Rejected struct {
	Row       int
	Candidate transaction.Candidate
	Err       error
}

type Result struct {
	Created  []transaction.Transaction
	Rejected []Rejected
}

// Import parses r and creates every candidate in file order. A rejected row
// does not stop the rest; the ledger rolls each failure back on its own.
func (s *Service) Import(ctx context.Context, ownerID string, bank Bank, r io.Reader, dst Creator) (Result, error) {
	candidates, err := s.Parse(ctx, ownerID, bank, r)
	if err != nil {
		return Result{}, err
	}

	var res Result

	for i, c := range candidates {
		tx, err := dst.Create(ctx, c)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejected{Row: i + 1, Candidate: c, Err: err})
			continue
		}

		res.Created = append(res.Created, tx)
	}

	return res, nil
}
