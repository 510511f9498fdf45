// Package warehouse is a fulfilment model whose constraint declarations
// use the struct tag keys check, check_each and groups instead of the
// defaults. Its Order and Customer share names with package store.
package warehouse

import (
	"time"
)

// Address represents a physical shipping address.
type Address struct {
	ID         uint   `check:"Min(value=1)"                   json:"id"`
	Street     string `check:"NotBlank"                       json:"street"`
	City       string `check:"NotBlank"                       json:"city"`
	PostalCode string `check:"NotBlank(groups=Shipping)"      json:"postal_code"`
	Country    string `check:"Size(min=2,max=2)"              json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// Customer is the warehouse view of a customer account.
type Customer struct {
	ID        uint      `check:"Min(value=1)"               json:"id"`
	FirstName string    `check:"NotBlank"                   json:"first_name"`
	LastName  string    `check:"NotBlank"                   json:"last_name"`
	Email     string    `check:"Email"                      json:"email"`
	Phone     *string   `check:"Pattern(regexp='^[0-9]+$');unwrap=skip" json:"phone,omitempty"`
	Addresses []Address `check:"valid"      check_each:"NotNull" json:"addresses,omitempty"`
}

// GetEmail returns the contact address of the customer.
//
//constraint:property NotBlank
func (c Customer) GetEmail() string {
	return c.Email
}

// Product represents a stocked item.
type Product struct {
	ID     uint    `check:"Min(value=1)"       json:"id"`
	SKU    string  `check:"NotBlank"           json:"sku"`
	Name   string  `json:"name"`
	Stock  int     `check:"PositiveOrZero"     json:"stock"`
	Weight float64 `check:"Positive"           json:"weight"`
}

// Order is a pick-and-ship order fulfilled from the warehouse.
//
//constraint:type PackableWeight
type Order struct {
	ID              uint        `check:"Min(value=1)"                     json:"id"`
	OrderNumber     string      `check:"NotBlank"                         json:"order_number"`
	ShippingAddress Address     `check:"valid" groups:"Default:Shipping"  json:"shipping_address"`
	Items           []OrderItem `check:"NotEmpty;valid" check_each:"NotNull" json:"items"`
	ShippedAt       *time.Time  `check:"PastOrPresent;unwrap=unwrap"      json:"shipped_at,omitempty"`
}

// Pick reserves quantity units of a product for the order.
//
//constraint:param sku NotBlank
//constraint:param quantity Positive
func (o *Order) Pick(sku string, quantity int) error {
	o.Items = append(o.Items, OrderItem{SKU: sku, Quantity: quantity})
	return nil
}

// Annotate attaches a free-form note and attributes to the order.
//
//constraint:param note NotNull
//constraint:param attrs Size(max=8)
func (o *Order) Annotate(note any, attrs map[string]any) error {
	return nil
}

// OrderItem is one picked line of an order.
type OrderItem struct {
	SKU      string `check:"NotBlank"     json:"sku"`
	Quantity int    `check:"Positive"     json:"quantity"`
}
