package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrPositionNotFound   = errors.New("position not found")
)
