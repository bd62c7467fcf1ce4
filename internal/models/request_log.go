package models

import "time"

// RequestStatus is the lifecycle state of a logged ZIP code lookup.
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "PENDING"
	RequestStatusSuccess RequestStatus = "SUCCESS"
	RequestStatusFailed  RequestStatus = "FAILED"
)

// IsTerminal reports whether the status ends a request's lifecycle.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusSuccess || s == RequestStatusFailed
}

// TimestampLayout is the fixed-width UTC layout stored in request_history.timestamp.
// Fixed width keeps lexicographic order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// RequestLog is one row of request_history.
type RequestLog struct {
	ID        int64         `json:"id" example:"42"`
	ZipCode   string        `json:"zip_code" example:"90210"`
	Timestamp string        `json:"timestamp" example:"2025-11-05T10:30:00.000000"`
	Status    RequestStatus `json:"status" example:"SUCCESS"`
} // @name RequestLog

// RecentRequestsResponse is the body of GET /requests.
type RecentRequestsResponse struct {
	RecentRequests []RequestLog `json:"recent_requests"`
} // @name RecentRequestsResponse
