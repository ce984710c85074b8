package models

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the lifecycle state shared by estimates, projects and orders.
type Status string

const (
	StatusDraft               Status = "draft"
	StatusPendingPayment      Status = "pending_payment"
	StatusPaymentPending      Status = "payment_pending"
	StatusWaitingVerification Status = "waiting_verification"
	StatusPaid                Status = "paid"
	StatusQueue               Status = "queue"
	StatusDev                 Status = "dev"
	StatusReview              Status = "review"
	StatusDone                Status = "done"
)

var ErrUnknownStatus = errors.New("unknown status")

var allStatuses = []Status{
	StatusDraft,
	StatusPendingPayment,
	StatusPaymentPending,
	StatusWaitingVerification,
	StatusPaid,
	StatusQueue,
	StatusDev,
	StatusReview,
	StatusDone,
}

// Statuses returns every accepted status value in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus accepts only the exact enum values. Surrounding whitespace is trimmed,
// case is not folded.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderShared reports whether an order may carry this status. Orders only track the
// payment side of the lifecycle.
func (s Status) OrderShared() bool {
	switch s {
	case StatusPaid, StatusPaymentPending, StatusWaitingVerification:
		return true
	}
	return false
}

// PastPayment reports whether the estimate has already been paid for.
func (s Status) PastPayment() bool {
	switch s {
	case StatusWaitingVerification, StatusPaid, StatusQueue, StatusDev, StatusReview, StatusDone:
		return true
	}
	return false
}

// InDelivery reports whether work on the project has started or finished.
func (s Status) InDelivery() bool {
	switch s {
	case StatusQueue, StatusDev, StatusReview, StatusDone:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
