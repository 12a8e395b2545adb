package worklog

import (
	"fmt"
	"strings"
	"time"

	"github.com/lukeacko/worklog/pkg/models"
)

// Validation failure reasons.
const (
	ReasonMissingField     = "MissingField"
	ReasonInvalidJobNumber = "InvalidJobNumber"
	ReasonInvalidVin       = "InvalidVin"
	ReasonInvalidDate      = "InvalidDate"
	ReasonInvalidStatus    = "InvalidStatus"
)

// ValidationError reports why a submitted entry was rejected. It carries a
// machine-readable reason plus the message shown to the user.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Validate checks a submitted entry against the form rules and returns the
// normalized copy on success. It trims surrounding whitespace and defaults
// an empty status to Pending; beyond that it is pure and side-effect free.
func Validate(e models.LogEntry) (models.LogEntry, error) {
	e.JobNum = strings.TrimSpace(e.JobNum)
	e.VIN = strings.TrimSpace(e.VIN)
	e.Technician = strings.TrimSpace(e.Technician)
	e.Description = strings.TrimSpace(e.Description)
	e.Date = strings.TrimSpace(e.Date)
	e.Status = strings.TrimSpace(e.Status)

	if e.JobNum == "" || e.VIN == "" || e.Technician == "" || e.Description == "" || e.Date == "" {
		return e, &ValidationError{Reason: ReasonMissingField, Message: "please fill all fields and select a date"}
	}
	if !isDigits(e.JobNum) || len(e.JobNum) > 5 {
		return e, &ValidationError{Reason: ReasonInvalidJobNumber, Message: "job number must be numeric and up to 5 digits"}
	}
	if len(e.VIN) != 17 || !isAlnum(e.VIN) {
		return e, &ValidationError{Reason: ReasonInvalidVin, Message: "VIN must be exactly 17 alphanumeric characters"}
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return e, &ValidationError{Reason: ReasonInvalidDate, Message: "date must be YYYY-MM-DD"}
	}

	if e.Status == "" {
		e.Status = models.StatusPending
	}
	valid := false
	for _, s := range models.Statuses {
		if e.Status == s {
			valid = true
			break
		}
	}
	if !valid {
		return e, &ValidationError{Reason: ReasonInvalidStatus, Message: "status must be Pending, In Progress or Complete"}
	}

	return e, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return s != ""
}
