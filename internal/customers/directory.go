// Package customers is the customer directory.
package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/store"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

// PendingAddress is used when a customer is created without an address
const PendingAddress = "Endereço pendente"

// NewCustomer is the input for Create
type NewCustomer struct {
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
	Address  string `json:"address"`
}

// ErrInvalidCustomer is returned by Validate
var ErrInvalidCustomer = errors.New("invalid customer")

// Validate applies the form rules for a new customer
func (n *NewCustomer) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	}
	if whatsapp.CleanPhone(n.WhatsApp) == "" {
		return fmt.Errorf("%w: whatsapp is required", ErrInvalidCustomer)
	}
	return nil
}

// Directory creates and looks up customers
type Directory struct {
	store  *store.Store
	events events.Publisher
}

// NewDirectory creates a directory over s
func NewDirectory(s *store.Store, pub events.Publisher) *Directory {
	return &Directory{store: s, events: pub}
}

// Create appends a customer. Duplicates are allowed.
func (d *Directory) Create(ctx context.Context, in NewCustomer) (*models.Customer, error) {
	var created models.Customer
	err := d.store.Update(ctx, func(tx *store.Tx) error {
		created = Add(tx, in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.Announce(ctx, created)
	return &created, nil
}

// Add creates a customer inside the caller's transaction
func Add(tx *store.Tx, in NewCustomer) models.Customer {
	c := models.Customer{
		ID:        tx.NewID(),
		Name:      in.Name,
		WhatsApp:  in.WhatsApp,
		Address:   in.Address,
		CreatedAt: tx.Now(),
	}
	tx.AddCustomer(c)
	return c
}

// Announce logs and publishes a customer created through Add
func (d *Directory) Announce(ctx context.Context, c models.Customer) {
	logger.FromContext(ctx).Info().Str("customer_id", c.ID).Str("name", c.Name).Msg("Customer created")
	events.Emit(ctx, d.events, events.New(events.TypeCustomerCreated, c.ID, c.CreatedAt, c))
}

// Find returns the first customer, in insertion order, whose name
// contains query ignoring case. A blank query matches nobody.
func (d *Directory) Find(query string) (*models.Customer, bool) {
	return FindIn(d.store.Customers(), query)
}

// FindIn applies Find's rule to an explicit list
func FindIn(list []models.Customer, query string) (*models.Customer, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, false
	}
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return &c, true
		}
	}
	return nil, false
}

// Search lists customers whose name contains term ignoring case, or whose
// WhatsApp number contains term verbatim. An empty term lists everyone.
func (d *Directory) Search(term string) []models.Customer {
	all := d.store.Customers()
	if term == "" {
		return all
	}
	lower := strings.ToLower(term)
	out := make([]models.Customer, 0)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.WhatsApp, term) {
			out = append(out, c)
		}
	}
	return out
}

// List returns every customer in insertion order
func (d *Directory) List() []models.Customer {
	return d.store.Customers()
}

// Get returns a customer by id
func (d *Directory) Get(id string) (*models.Customer, bool) {
	for _, c := range d.store.Customers() {
		if c.ID == id {
			return &c, true
		}
	}
	return nil, false
}

// ContactLink opens a chat with the customer using the greeting template
func (d *Directory) ContactLink(id string) (string, bool) {
	c, ok := d.Get(id)
	if !ok {
		return "", false
	}
	return whatsapp.ChatLink(c.WhatsApp, whatsapp.Greeting(c.Name)), true
}
