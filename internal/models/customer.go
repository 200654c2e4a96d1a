package models

import "time"

// Customer is a buyer known to the seller. Customers are never edited or removed.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WhatsApp  string    `json:"whatsapp"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}
