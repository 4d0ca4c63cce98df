package enum

//go:buildergen:builder="Color"

type Color int

const (
	Red Color = iota
	Green
)
