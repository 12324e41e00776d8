package respond

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type TransactionResponse struct {
	ID            uuid.UUID            `json:"id"`
	Kind          transaction.Kind     `json:"kind"`
	Description   string               `json:"description"`
	Category      transaction.Category `json:"category"`
	CategoryLabel string               `json:"category_label"`
	Amount        string               `json:"amount"`
	OccurredOn    string               `json:"occurred_on"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func Transaction(tx transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		Kind:          tx.Kind,
		Description:   tx.Description,
		Category:      tx.Category,
		CategoryLabel: tx.Category.Label(),
		Amount:        tx.Amount.StringFixed(2),
		OccurredOn:    transaction.FormatDate(tx.OccurredOn),
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func Transactions(txs []transaction.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = Transaction(tx)
	}

	return resp
}
