package plain

type Job struct {
	ID int
}
