package handler

import "time"

// messageResponse is the envelope used for registration outcomes, email
// checks, logout confirmations and all 4xx failure bodies.
type messageResponse struct {
	Message   string    `json:"message"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

func message(text string, success bool) messageResponse {
	return messageResponse{Message: text, Success: success, Timestamp: time.Now().UTC()}
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type jwtResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type identityResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Enabled   bool       `json:"enabled"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// --- Categories ---

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	EntryCount  int64     `json:"entry_count"`
}

type categoryPageResponse struct {
	Items      []categoryResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// --- Entries ---

type entryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Type        string  `json:"type"        validate:"required,oneof=revenue expense"`
	Amount      float64 `json:"amount"      validate:"required,gt=0"`
	Date        string  `json:"date"        validate:"required,datetime=2006-01-02"`
	Paid        *bool   `json:"paid"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

type entryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	Date         string    `json:"date"`
	Paid         bool      `json:"paid"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type entryPageResponse struct {
	Items      []entryResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type totalResponse struct {
	Total float64 `json:"total"`
}

type summaryResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// dateLayout is the wire format for entry dates (day precision).
const dateLayout = "2006-01-02"
