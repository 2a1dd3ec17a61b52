package employee

import "time"

// Working statuses shown on the employee list.
const (
	StatusProbation = "Đang thử việc"
	StatusWorking   = "Đang làm việc"
	StatusOnLeave   = "Đang nghỉ phép"
)

var Statuses = []string{StatusProbation, StatusWorking, StatusOnLeave}

type Employee struct {
	ID           string
	Name         string
	Email        string
	DepartmentID string
	Department   string
	PositionID   string
	Position     string
	Status       string
	StartDate    *time.Time
}
