package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:      Money{Cents: 1234},
		Description: "groceries",
		Date:        NewDate(2024, 6, 5),
		Type:        Expense,
		Category:    "Food & Dining",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	bads := []Transaction{
		{Amount: Money{Cents: 0}, Description: "a", Date: NewDate(2024, 6, 5), Type: Expense, Category: "c"},
		{Amount: Money{Cents: 1}, Description: "", Date: NewDate(2024, 6, 5), Type: Expense, Category: "c"},
		{Amount: Money{Cents: 1}, Description: string(long), Date: NewDate(2024, 6, 5), Type: Expense, Category: "c"},
		{Amount: Money{Cents: 1}, Description: "a", Date: Date{}, Type: Expense, Category: "c"},
		{Amount: Money{Cents: 1}, Description: "a", Date: NewDate(2024, 6, 5), Type: "transfer", Category: "c"},
		{Amount: Money{Cents: 1}, Description: "a", Date: NewDate(2024, 6, 5), Type: Expense, Category: "  "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food & Dining", Amount: Money{Cents: 20000}, Month: "2024-06"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{Category: "", Amount: Money{Cents: 1}, Month: "2024-06"},
		{Category: "c", Amount: Money{Cents: 0}, Month: "2024-06"},
		{Category: "c", Amount: Money{Cents: 1}, Month: "2024-6"},
		{Category: "c", Amount: Money{Cents: 1}, Month: "2024-13"},
		{Category: "c", Amount: Money{Cents: 1}, Month: "june"},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMonthKeyRoundTrip(t *testing.T) {
	m, err := ParseMonth("2024-06")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := MonthKey(m); got != "2024-06" {
		t.Fatalf("key = %q", got)
	}
	if _, err := ParseMonth("2024-6"); err == nil {
		t.Fatalf("expected error for non-canonical key")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 6, 5)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-06-05"` {
		t.Fatalf("marshal = %s", b)
	}

	var parsed Date
	if err := parsed.UnmarshalJSON([]byte(`"2024-06-05"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v", parsed)
	}

	var rfc Date
	if err := rfc.UnmarshalJSON([]byte(`"2024-06-05T10:30:00Z"`)); err != nil {
		t.Fatalf("unmarshal rfc3339: %v", err)
	}
	if rfc.Year() != 2024 || rfc.Month() != time.June || rfc.Day() != 5 {
		t.Fatalf("rfc3339 parsed to %v", rfc)
	}

	if err := parsed.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Fatalf("expected error for junk date")
	}
}
