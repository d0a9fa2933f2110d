package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the delivery lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusRejected  OrderStatus = "rejected"
	StatusOnTheWay  OrderStatus = "on-the-way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")
var ErrOrderNotFound = errors.New("order not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")

// ParseOrderStatus converts a raw string into an OrderStatus, rejecting
// anything outside the six-value lifecycle set.
//
// Transitions are deliberately unrestricted: any of the six values may be
// applied to an order in any state. Administrators use this to correct
// mistakes (e.g. rolling a mis-clicked "delivered" back to "on-the-way").
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"price" bson:"price"`
}

// Order is the core aggregate root. Each order is owned by exactly one user
// and is mutated only through status transitions after creation.
type Order struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	OwnerID   string      `json:"user_id" bson:"owner_id"`
	Items     []OrderItem `json:"items" bson:"items"`
	Address   string      `json:"address" bson:"address"`
	Total     float64     `json:"total" bson:"total"`
	Status    OrderStatus `json:"status" bson:"status"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}
