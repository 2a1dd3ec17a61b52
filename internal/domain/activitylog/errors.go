package activitylog

import "errors"

var (
	ErrEmptyActivityType = errors.New("activity type is required")
)
