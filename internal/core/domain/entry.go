package domain

import "time"

// EntryType is the closed set of financial entry kinds.
type EntryType string

const (
	TypeRevenue EntryType = "revenue"
	TypeExpense EntryType = "expense"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == TypeRevenue || t == TypeExpense
}

// Entry is a single financial transaction belonging to a category.
// Date carries day precision only (the transaction's accounting date).
type Entry struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        EntryType `json:"type"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Paid        bool      `json:"paid"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRevenue reports whether the entry adds to the balance.
func (e *Entry) IsRevenue() bool { return e.Type == TypeRevenue }

// IsExpense reports whether the entry subtracts from the balance.
func (e *Entry) IsExpense() bool { return e.Type == TypeExpense }
