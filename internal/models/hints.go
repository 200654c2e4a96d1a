package models

// OrderHints is what the extraction oracle pulled out of a free-text
// message. Every field is optional; nil means the oracle found nothing.
type OrderHints struct {
	CustomerName    *string  `json:"customerName"`
	CustomerAddress *string  `json:"customerAddress"`
	CustomerPhone   *string  `json:"customerPhone"`
	ProductKeywords *string  `json:"productKeywords"`
	Quantity        *float64 `json:"quantity"`
}

// Draft is the new-order form being filled in by the operator
type Draft struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
	Busy       bool   `json:"busy"`
}
