package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Date is a calendar date; time-of-day is irrelevant for aggregation.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64           `json:"id"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	Budget struct {
		ID        int64     `json:"id"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		Month     string    `json:"month"` // YYYY-MM
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrEmptyDescription = errors.New("description is required")
	ErrLongDescription  = errors.New("description too long (max 200 characters)")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrEmptyCategory    = errors.New("category is required")
	ErrInvalidMonth     = errors.New("month must be in YYYY-MM format")
	ErrInvalidDate      = errors.New("date is required")
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsValidationError reports whether err is one of the domain validation
// sentinels, as opposed to a storage or transport failure.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidAmount, ErrEmptyDescription, ErrLongDescription,
		ErrInvalidType, ErrEmptyCategory, ErrInvalidMonth, ErrInvalidDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD or RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

// MonthKey returns the canonical YYYY-MM key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseMonth parses a canonical YYYY-MM key into the first instant of that
// calendar month (UTC). Keys are calendar months, never string prefixes of
// arbitrary dates.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrLongDescription
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !monthKeyRe.MatchString(b.Month) {
		return ErrInvalidMonth
	}
	if _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	return nil
}
