// Package matching shows argument matchers: value sets, ranges, patterns, predicates over
// struct fields, and gomega matchers.
package matching

import "fmt"

// Order is a request to reserve stock.
type Order struct {
	SKU      string
	Quantity int
	Customer string
}

// Warehouse prices and reserves stock.
type Warehouse interface {
	Audit(note string)
	Price(sku string, quantity int) float64
	Reserve(order Order) (bool, error)
}

// Fulfil reserves every order it can, auditing the rest, and returns the total price of the
// reserved orders.
func Fulfil(warehouse Warehouse, orders []Order) float64 {
	total := 0.0

	for _, order := range orders {
		ok, err := warehouse.Reserve(order)
		if err != nil || !ok {
			warehouse.Audit(fmt.Sprintf("skipped %s for %s", order.SKU, order.Customer))

			continue
		}

		total += warehouse.Price(order.SKU, order.Quantity)
	}

	return total
}
