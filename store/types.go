// Package store is a small order-management model carrying constraint
// declarations in struct tags and method directives. It is loaded by the
// analyzer and tag discovery tests.
package store

import (
	"errors"
	"time"
)

// Customer represents the user placing orders.
type Customer struct {
	ID       int64    `json:"id" validate:"Min(value=1)"`
	Email    string   `json:"email" validate:"NotNull;Email"`
	FullName string   `json:"full_name" validate:"NotBlank;Size(max=128)"`
	Address  *Address `json:"address" validate:"valid" convert:"Default:Complete"`
	Tags     []string `json:"tags" validate_elem:"NotBlank;Size(max=32)"`
	Nickname *string  `json:"nickname,omitempty" validate:"Size(min=2);unwrap=skip"`
	notes    string
}

// Rename changes the customer's full name.
//
//constraint:param name NotBlank;Size(max=128)
//constraint:return NotNull
func (c *Customer) Rename(name string) *Customer {
	c.FullName = name
	return c
}

// Address is a postal address; only complete addresses can be shipped to.
type Address struct {
	Street string `json:"street" validate:"NotBlank(groups=Complete)"`
	City   string `json:"city" validate:"NotBlank(groups=Complete)"`
	Zip    string `json:"zip" validate:"Pattern(regexp='^[0-9]{5}$')"`
}

// Order represents a transaction made by a customer.
//
//constraint:type ConsistentTotal
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id" validate:"Min(value=1)"`
	Status     OrderStatus `json:"status" validate:"NotNull"`
	TotalCents int64       `json:"total_cents" validate:"PositiveOrZero"`
	Items      []OrderItem `json:"items" validate:"NotEmpty;valid" validate_elem:"NotNull"`
	OrderedAt  time.Time   `json:"ordered_at" validate:"PastOrPresent"`
}

// Total returns the order total in cents computed from its items.
//
//constraint:property PositiveOrZero
func (o Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}

	return total
}

// Ship hands the order to a carrier.
//
//constraint:cross ShippableStatus
//constraint:param 0 NotBlank
//constraint:param at Future
func (o *Order) Ship(carrier string, at time.Time) error {
	if o.Status != StatusPaid {
		return errors.New("order is not paid")
	}

	o.Status = StatusShipped

	return nil
}

// OrderItem represents a specific product line within an order.
type OrderItem struct {
	ProductID int64  `json:"product_id" validate:"Min(value=1)"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" validate:"Min(value=1)"`
	UnitPrice int64  `json:"unit_price" validate:"PositiveOrZero"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
