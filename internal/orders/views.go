package orders

import (
	"sort"
	"strconv"

	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/models"
)

// UnknownCustomer labels recent orders whose customer cannot be resolved
const UnknownCustomer = "Cliente Desconhecido"

// Tab is one of the order list filters
type Tab string

const (
	TabAll     Tab = "all"
	TabPending Tab = "pending"
	TabShipped Tab = "shipped"
)

// ParseTab maps a query value to a Tab; empty means all
func ParseTab(s string) (Tab, bool) {
	switch t := Tab(s); t {
	case "":
		return TabAll, true
	case TabAll, TabPending, TabShipped:
		return t, true
	}
	return "", false
}

// Includes reports whether an order with status s belongs on the tab
func (t Tab) Includes(s models.OrderStatus) bool {
	switch t {
	case TabPending:
		return s == models.OrderStatusPending || s == models.OrderStatusLabelGenerated
	case TabShipped:
		return s == models.OrderStatusShipped || s == models.OrderStatusDelivered
	}
	return true
}

// View is an order joined with the names needed to display it
type View struct {
	models.Order
	CustomerName     string   `json:"customerName"`
	CustomerWhatsApp string   `json:"customerWhatsapp"`
	CustomerAddress  string   `json:"customerAddress"`
	ProductName      string   `json:"productName"`
	UnitPrice        *float64 `json:"unitPrice,omitempty"`
	Total            *float64 `json:"total,omitempty"`
}

func newView(o models.Order, c models.Customer, p models.Product) View {
	v := View{
		Order:            o,
		CustomerName:     c.Name,
		CustomerWhatsApp: c.WhatsApp,
		CustomerAddress:  c.Address,
		ProductName:      p.Name,
	}
	if p.Price != nil {
		unit := *p.Price
		total := unit * float64(o.Quantity)
		v.UnitPrice = &unit
		v.Total = &total
	}
	return v
}

// List returns the orders on tab, newest first. Orders whose customer or
// product no longer resolves are left out.
func (w *Workflow) List(tab Tab) []View {
	customers, products, orders := w.store.Snapshot()

	out := make([]View, 0, len(orders))
	for _, o := range orders {
		if !tab.Includes(o.Status) {
			continue
		}
		c, ok := findCustomer(customers, o.CustomerID)
		if !ok {
			continue
		}
		p, ok := findProduct(products, o.ProductID)
		if !ok {
			continue
		}
		out = append(out, newView(o, c, p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// View returns a single joined order
func (w *Workflow) View(id string) (*View, bool) {
	customers, products, orders := w.store.Snapshot()
	o, ok := findOrder(orders, id)
	if !ok {
		return nil, false
	}
	c, _ := findCustomer(customers, o.CustomerID)
	p, _ := findProduct(products, o.ProductID)
	v := newView(o, c, p)
	if c.ID == "" {
		v.CustomerName = UnknownCustomer
	}
	return &v, true
}

// LowStockEntry is a lot shown in the dashboard's low stock panel
type LowStockEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label"`
}

// Dashboard is the overview screen
type Dashboard struct {
	ActiveProducts int             `json:"activeProducts"`
	PendingOrders  int             `json:"pendingOrders"`
	TotalStock     int             `json:"totalStock"`
	Receivable     float64         `json:"receivable"`
	TotalCustomers int             `json:"totalCustomers"`
	LowStock       []LowStockEntry `json:"lowStock"`
	RecentOrders   []View          `json:"recentOrders"`
}

// Dashboard computes the overview from one consistent snapshot
func (w *Workflow) Dashboard() Dashboard {
	customers, products, orders := w.store.Snapshot()

	d := Dashboard{
		TotalCustomers: len(customers),
		LowStock:       []LowStockEntry{},
		RecentOrders:   []View{},
	}

	for _, p := range inventory.FilterActive(products) {
		d.ActiveProducts++
		d.TotalStock += p.RemainingQuantity
	}

	for _, p := range inventory.FilterLowStock(products, inventory.LowStockThreshold) {
		label := "COMPLETA"
		if p.RemainingQuantity > 0 {
			label = "Restam " + strconv.Itoa(p.RemainingQuantity)
		}
		d.LowStock = append(d.LowStock, LowStockEntry{ID: p.ID, Name: p.Name, Remaining: p.RemainingQuantity, Label: label})
	}

	for _, o := range orders {
		if o.Status == models.OrderStatusPending {
			d.PendingOrders++
		}
		if !o.IsPaid {
			if p, ok := findProduct(products, o.ProductID); ok {
				d.Receivable += p.UnitPrice() * float64(o.Quantity)
			}
		}
	}

	for i := 0; i < len(orders) && i < 5; i++ {
		o := orders[i]
		c, _ := findCustomer(customers, o.CustomerID)
		p, _ := findProduct(products, o.ProductID)
		v := newView(o, c, p)
		if c.ID == "" {
			v.CustomerName = UnknownCustomer
		}
		d.RecentOrders = append(d.RecentOrders, v)
	}
	return d
}

func findOrder(list []models.Order, id string) (models.Order, bool) {
	for _, o := range list {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func findCustomer(list []models.Customer, id string) (models.Customer, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return models.Customer{}, false
}

func findProduct(list []models.Product, id string) (models.Product, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
