// Package importer turns bank exports into transaction candidates.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Importer parses one bank's export format. Candidates carry no owner; the
// ledger assigns it.
type Importer interface {
	Parse(r io.Reader) ([]transaction.Candidate, error)
}
