package request

import "errors"

var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrForbidden               = errors.New("not allowed to act on this request")
	ErrRequestAlreadyProcessed = errors.New("request already processed")
)
