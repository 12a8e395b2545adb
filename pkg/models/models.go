package models

// Domain models shared by the store backends and the HTTP surface.

// Entry statuses. Empty status normalizes to StatusPending.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusComplete   = "Complete"
)

// Statuses lists the allowed entry statuses in display order.
var Statuses = []string{StatusPending, StatusInProgress, StatusComplete}

// LogEntry is one repair job record. ID is backend-assigned: the decimal
// row id in the relational backend, the job number itself in the document
// backend.
type LogEntry struct {
	ID          string `json:"id" db:"id"`
	JobNum      string `json:"jobnum" db:"jobnum"`
	VIN         string `json:"vin" db:"vin"`
	Technician  string `json:"technician" db:"technician"`
	Description string `json:"description" db:"description"`
	Date        string `json:"date" db:"date"`
	Status      string `json:"status" db:"status"`
}

// Technician is one roster record.
type Technician struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// User is an API operator account.
type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

// Filter is a conjunction of optional predicates over log entries.
// JobNum, VIN and Technician match as case-insensitive substrings; Status
// and Date match exactly. Zero-value fields match everything.
type Filter struct {
	JobNum     string `json:"jobnum,omitempty"`
	VIN        string `json:"vin,omitempty"`
	Technician string `json:"technician,omitempty"`
	Status     string `json:"status,omitempty"`
	Date       string `json:"date,omitempty"`
}

// IsZero reports whether every predicate is absent.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
