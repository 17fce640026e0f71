package model

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusPreparing    OrderStatus = "preparing"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCustomerLeft OrderStatus = "customer_left" // defined and ranked, no edge leads here
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// orderTransitions lists the single forward step allowed from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusDelivered},
}

var statusRank = map[OrderStatus]int{
	OrderStatusPending:      1,
	OrderStatusPreparing:    2,
	OrderStatusReady:        3,
	OrderStatusDelivered:    4,
	OrderStatusCustomerLeft: 5,
}

const unknownStatusRank = 6

// TransitionError reports a rejected status change.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ParseOrderStatus accepts only the defined status values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank is the dashboard sort key. Unknown values sort last.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return unknownStatusRank
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves order to target when the edge exists.
func Transition(order *Order, target OrderStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !CanTransition(order.Status, target) {
		return &TransitionError{From: order.Status, To: target}
	}
	order.Status = target
	return nil
}
