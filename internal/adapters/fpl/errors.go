package fpl

import "errors"

// Sentinel kinds for upstream errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrDecode           = errors.New("malformed upstream payload")
	ErrRateLimited      = errors.New("rate limited by upstream")
)
