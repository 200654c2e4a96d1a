package whatsapp

import (
	"fmt"
	"strings"

	"github.com/xelth-com/zapstock/internal/models"
)

// MessageKind selects one of the order follow-up templates
type MessageKind string

const (
	MessagePayment MessageKind = "payment"
	MessageLabel   MessageKind = "label"
	MessageShipped MessageKind = "shipped"
)

// ParseMessageKind validates a template name from a request path
func ParseMessageKind(s string) (MessageKind, bool) {
	switch k := MessageKind(s); k {
	case MessagePayment, MessageLabel, MessageShipped:
		return k, true
	}
	return "", false
}

// Greeting is the generic "reaching out" message from the customer list
func Greeting(name string) string {
	return fmt.Sprintf("Olá %s, tudo bem? Estou entrando em contato sobre suas compras.", name)
}

// OrderMessage renders a follow-up template for one order
func OrderMessage(kind MessageKind, customer models.Customer, product models.Product, order models.Order) string {
	switch kind {
	case MessagePayment:
		total := "A calcular"
		if product.Price != nil && *product.Price != 0 {
			total = Money(*product.Price * float64(order.Quantity))
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Olá *%s*! 👋\n\n", customer.Name)
		fmt.Fprintf(&b, "Confirmei seu pedido de:\n📦 %s (x%d)\n", product.Name, order.Quantity)
		fmt.Fprintf(&b, "💰 *Total: R$ %s*\n\n", total)
		b.WriteString("Por favor, faça o pagamento e me envie o comprovante para liberarmos sua caixa! ✅")
		return b.String()
	case MessageLabel:
		return fmt.Sprintf("Opa %s! Pagamento confirmado ✅\n\n", customer.Name) +
			"Agora preciso da sua *Etiqueta de Envio* (PDF) para despachar sua caixa.\n" +
			"Pode me mandar por aqui?"
	case MessageShipped:
		return fmt.Sprintf("Oi %s, ótima notícia! 🚚💨\n\nSeu pedido já foi enviado. Obrigado pela preferência!", customer.Name)
	}
	return ""
}

// StockBroadcast lists every active lot that still has units, for posting
// to the sales group. Lots with nothing left are skipped.
func StockBroadcast(products []models.Product) string {
	var b strings.Builder
	b.WriteString("*📦 ESTOQUE DISPONÍVEL - ATUALIZAÇÃO 📦*\n\n")

	active := 0
	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		active++
		if p.RemainingQuantity <= 0 {
			continue
		}
		fmt.Fprintf(&b, "🔹 *%s*\n", p.Name)
		fmt.Fprintf(&b, "   Restam: %d unid\n", p.RemainingQuantity)
		if p.HasPrice() {
			fmt.Fprintf(&b, "   💰 Valor: R$ %s\n", Money(*p.Price))
		}
		b.WriteString("\n")
	}

	if active == 0 {
		b.WriteString("_Nenhum produto disponível no momento._")
		return b.String()
	}
	b.WriteString("👇 *Responda essa mensagem para reservar!*")
	return b.String()
}

// Money formats an amount with two decimals
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
