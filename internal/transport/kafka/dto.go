package kafka

import (
	"time"

	"deligo-fulfillment/internal/domain"
)

// EventDTO is the wire format of an order status event
type EventDTO struct {
	OrderID    int64     `json:"order_id"`
	Status     int       `json:"status"`
	StatusName string    `json:"status_name"`
	CustomerID int64     `json:"customer_id"`
	Candidates []int64   `json:"candidates,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromDomain converts domain.OrderEvent to EventDTO
func FromDomain(e domain.OrderEvent) EventDTO {
	return EventDTO{
		OrderID:    e.OrderID,
		Status:     int(e.Status),
		StatusName: e.Status.String(),
		CustomerID: e.CustomerID,
		Candidates: e.Candidates,
		OccurredAt: e.OccurredAt.UTC(),
	}
}
