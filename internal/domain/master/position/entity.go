package position

type Position struct {
	ID          string
	Name        string
	Description string
}
