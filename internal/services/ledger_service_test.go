package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type recordingPublisher struct {
	msgs []*amqp.ChangeMessage
	err  error
}

func (p *recordingPublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func sampleTransaction() core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 2500},
		Description: "groceries",
		Date:        core.NewDate(2024, 6, 10),
		Type:        core.Expense,
		Category:    "Food & Dining",
	}
}

func TestCreateTransactionPublishesChange(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.New(), pub)

	created, err := svc.CreateTransaction(context.Background(), sampleTransaction())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("published = %d", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if msg.Entity != "transaction" || msg.Action != "created" || msg.ID != created.ID {
		t.Fatalf("msg = %+v", msg)
	}
	if msg.Month != "2024-06" {
		t.Fatalf("month = %q", msg.Month)
	}
}

func TestCreateTransactionSucceedsWhenPublishFails(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub)

	if _, err := svc.CreateTransaction(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("store write should win: %v", err)
	}
}

func TestNilPublisherIsSkipped(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	if _, err := svc.CreateTransaction(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestCreateBudgetPublishesMonth(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.New(), pub)

	b := core.Budget{Category: "Travel", Amount: core.Money{Cents: 50000}, Month: "2024-06"}
	created, err := svc.CreateBudget(context.Background(), b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Month != "2024-06" {
		t.Fatalf("msgs = %+v", pub.msgs)
	}

	if err := svc.DeleteBudget(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.msgs) != 2 || pub.msgs[1].Action != "deleted" {
		t.Fatalf("msgs = %+v", pub.msgs)
	}
}

func TestInvalidWriteDoesNotPublish(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.New(), pub)

	bad := sampleTransaction()
	bad.Amount.Cents = 0
	if _, err := svc.CreateTransaction(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if len(pub.msgs) != 0 {
		t.Fatalf("published = %d", len(pub.msgs))
	}
}
