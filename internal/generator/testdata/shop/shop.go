package shop

import "time"

//go:buildergen:missing="all"

// Order is a purchase.
//
//go:buildergen:builder
type Order struct {
	ID     int64
	Placed time.Time
	Note   *string
}

//go:buildergen:builder
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

type Item struct {
	SKU string
}
