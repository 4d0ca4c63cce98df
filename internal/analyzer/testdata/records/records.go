package records

import "time"

// Order is a purchase.
//
//go:buildergen:builder
type Order struct {
	ID     int64
	Items  []Item
	Note   *string
	Placed time.Time
	_      int
	Audit
}

// Item is one order line.
type Item struct {
	SKU string
	Qty int
}

type Audit struct {
	CreatedBy string
}

type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

type Number[T ~int | ~float64] struct {
	N T
}

type Empty struct{}

type OnlyBlank struct {
	_ int
}

type Color int

const (
	Red Color = iota
	Green
)

type Celsius float64

type Reader interface {
	Read() error
}

type Point [2]int

type OrderAlias = Order

type IDs []int64

const Limit = 10

func (o Order) Total() int { return len(o.Items) }

func (o *Order) Reset() { o.Items = nil }
