package service

import (
	"context"

	"deligo-fulfillment/internal/domain"
)

// EventPublisher publishes committed order status changes.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, e domain.OrderEvent) error
}

// WorkflowMetrics records workflow outcomes.
type WorkflowMetrics interface {
	Transition(s domain.OrderStatus)
	Candidates(n int)
	Notification(outcome string)
	PublishFailed()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// PublishOrderEvent does nothing.
func (NopPublisher) PublishOrderEvent(context.Context, domain.OrderEvent) error { return nil }

// NopMetrics records nothing.
type NopMetrics struct{}

// Transition does nothing.
func (NopMetrics) Transition(domain.OrderStatus) {}

// Candidates does nothing.
func (NopMetrics) Candidates(int) {}

// Notification does nothing.
func (NopMetrics) Notification(string) {}

// PublishFailed does nothing.
func (NopMetrics) PublishFailed() {}
