package reserved

var slot = "taken"

//go:buildergen:builder
type Job struct {
	ID   int
	Name string
}

func describe() string { return slot }
