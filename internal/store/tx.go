package store

import (
	"encoding/json"
	"time"

	"github.com/xelth-com/zapstock/internal/models"
)

// Tx is a working copy of the collections handed to Update callbacks.
// Pointers returned by its finders stay valid for the life of the
// transaction; callers that modify through them must call MarkChanged.
type Tx struct {
	store     *Store
	now       time.Time
	customers []models.Customer
	products  []models.Product
	orders    []models.Order
	changed   map[Collection]bool
}

// Now is the transaction timestamp
func (tx *Tx) Now() time.Time { return tx.now }

// NewID returns a fresh record id
func (tx *Tx) NewID() string { return tx.store.NewID() }

// MarkChanged schedules c to be persisted on commit
func (tx *Tx) MarkChanged(c Collection) { tx.changed[c] = true }

func (tx *Tx) Customers() []models.Customer { return tx.customers }
func (tx *Tx) Products() []models.Product   { return tx.products }
func (tx *Tx) Orders() []models.Order       { return tx.orders }

// Customer finds a customer by id
func (tx *Tx) Customer(id string) *models.Customer {
	for i := range tx.customers {
		if tx.customers[i].ID == id {
			return &tx.customers[i]
		}
	}
	return nil
}

// Product finds a product lot by id
func (tx *Tx) Product(id string) *models.Product {
	for i := range tx.products {
		if tx.products[i].ID == id {
			return &tx.products[i]
		}
	}
	return nil
}

// Order finds an order by id
func (tx *Tx) Order(id string) *models.Order {
	for i := range tx.orders {
		if tx.orders[i].ID == id {
			return &tx.orders[i]
		}
	}
	return nil
}

// AddCustomer appends c to the directory
func (tx *Tx) AddCustomer(c models.Customer) {
	tx.customers = append(tx.customers, c)
	tx.MarkChanged(Customers)
}

// AddProduct appends p to the lot list
func (tx *Tx) AddProduct(p models.Product) {
	tx.products = append(tx.products, p)
	tx.MarkChanged(Products)
}

// AddOrder puts o at the head of the order book
func (tx *Tx) AddOrder(o models.Order) {
	tx.orders = append([]models.Order{o}, tx.orders...)
	tx.MarkChanged(Orders)
}

func (tx *Tx) changedCollections() []Collection {
	var out []Collection
	for _, c := range allCollections {
		if tx.changed[c] {
			out = append(out, c)
		}
	}
	return out
}

func (tx *Tx) encode(c Collection) ([]byte, error) {
	switch c {
	case Customers:
		return json.Marshal(tx.customers)
	case Products:
		return json.Marshal(tx.products)
	default:
		return json.Marshal(tx.orders)
	}
}
