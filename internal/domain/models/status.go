package models

import (
	"strconv"
	"strings"
)

// Status is the single logical booking status, projected from the four
// independent persisted signals (approval stat, reject reason, cancel flag,
// return timestamp). Returned is derived, never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusReturned  Status = "returned"
)

// ProjectStatus reconciles the persisted signals into one status with
// precedence Cancelled > Rejected > Returned > Approved > Pending.
// Every display and guard decision must go through this function.
func ProjectStatus(b BookingApplication) Status {
	if b.Cancelled {
		return StatusCancelled
	}
	if b.ApprovalStat == ApprovalRejected {
		return StatusRejected
	}
	if b.ApprovalStat == ApprovalApproved {
		if b.HasReturn() {
			return StatusReturned
		}
		return StatusApproved
	}
	return StatusPending
}

// IsTerminal reports whether no further action is permitted on the record.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// ParseStatus normalizes a list-filter value; unknown input yields "".
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusApproved:
		return StatusApproved
	case StatusRejected:
		return StatusRejected
	case StatusCancelled:
		return StatusCancelled
	case StatusReturned:
		return StatusReturned
	}
	return ""
}

// FlexBool normalizes the duck-typed truthy variants older clients send for
// flag fields: 1, "1", true, "true", "yes". Anything else is false.
func FlexBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if s == "" {
			return false
		}
		if s == "true" || s == "yes" || s == "y" {
			return true
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n != 0
		}
		return false
	default:
		return false
	}
}
