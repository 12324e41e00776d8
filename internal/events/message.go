package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// Message is the body published for every committed ledger change.
type Message struct {
	Op          string             `json:"op"`
	OwnerID     string             `json:"owner_id"`
	Transaction TransactionPayload `json:"transaction"`
	At          time.Time          `json:"at"`
}

type TransactionPayload struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	OccurredOn  string `json:"occurred_on"`
}

func MessageOf(e ledger.Event) Message {
	tx := e.Transaction

	return Message{
		Op:      string(e.Op),
		OwnerID: e.OwnerID,
		Transaction: TransactionPayload{
			ID:          tx.ID.String(),
			Kind:        string(tx.Kind),
			Description: tx.Description,
			Category:    string(tx.Category),
			Amount:      tx.Amount.StringFixed(2),
			OccurredOn:  transaction.FormatDate(tx.OccurredOn),
		},
		At: e.At.UTC(),
	}
}

// RoutingKey is "ledger.<op>", e.g. "ledger.create".
func (m Message) RoutingKey() string {
	return "ledger." + m.Op
}

func (m Message) Marshal() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	return b, nil
}

func Unmarshal(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("unmarshal message: %w", err)
	}

	return m, nil
}
