// Package services orchestrates writes across the store and AMQP. Writes
// always hit the store first; change notifications are best effort.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ChangePublisher is the slice of the AMQP client the service needs.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// LedgerService wraps a store with change notifications for the report
// worker. A nil publisher disables notifications.
type LedgerService struct {
	store     store.Store
	publisher ChangePublisher
}

func NewLedgerService(st store.Store, publisher ChangePublisher) *LedgerService {
	return &LedgerService{store: st, publisher: publisher}
}

func (s *LedgerService) Store() store.Store { return s.store }

func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publish(ctx, "transaction", "created", created.ID, core.MonthKey(created.Date.Time))
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, "transaction", "updated", updated.ID, core.MonthKey(updated.Date.Time))
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "transaction", "deleted", id, "")
	return nil
}

func (s *LedgerService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	s.publish(ctx, "budget", "created", created.ID, created.Month)
	return created, nil
}

func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	s.publish(ctx, "budget", "updated", updated.ID, updated.Month)
	return updated, nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "budget", "deleted", id, "")
	return nil
}

// publish sends a change notification. Failures are logged, never returned;
// the store write already succeeded.
func (s *LedgerService) publish(ctx context.Context, entity, action string, id int64, month string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(entity, action, id, month)
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entity", entity,
			"action", action,
			"id", id,
			"error", err)
	}
}
