package models

import "time"

// SeedCustomers is the directory a brand new install starts with
func SeedCustomers(now time.Time) []Customer {
	return []Customer{
		{ID: "1", Name: "Maria Silva", WhatsApp: "11999998888", Address: "Rua das Flores, 123, SP", CreatedAt: now},
		{ID: "2", Name: "João Santos", WhatsApp: "21988887777", Address: "Av Atlantica, 400, RJ", CreatedAt: now},
	}
}

// SeedProducts is the stock a brand new install starts with
func SeedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Kit Camisetas Básicas (Caixa 01)", TotalQuantity: 100, RemainingQuantity: 0, Price: floatPtr(25.00), Status: ProductStatusActive},
		{ID: "2", Name: "Meias Esportivas (Caixa 02)", TotalQuantity: 100, RemainingQuantity: 85, Price: floatPtr(12.50), Status: ProductStatusActive},
	}
}

// SeedOrders is the order book a brand new install starts with
func SeedOrders(now time.Time) []Order {
	return []Order{
		{ID: "101", CustomerID: "1", ProductID: "1", Quantity: 10, Status: OrderStatusPending, Date: now, IsPaid: true},
		{ID: "102", CustomerID: "2", ProductID: "2", Quantity: 5, Status: OrderStatusPending, Date: now, IsPaid: false},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
