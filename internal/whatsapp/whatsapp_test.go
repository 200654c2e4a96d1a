package whatsapp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xelth-com/zapstock/internal/models"
)

func price(v float64) *float64 { return &v }

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "5511999998888", CleanPhone("+55 (11) 99999-8888"))
	assert.Equal(t, "", CleanPhone("n/a"))
}

func TestEncodeComponent(t *testing.T) {
	assert.Equal(t, "Ol%C3%A1%20Ana%2C%20tudo%20bem%3F", EncodeComponent("Olá Ana, tudo bem?"))
	assert.Equal(t, "a-b_c.d!e~f*g'h(i)", EncodeComponent("a-b_c.d!e~f*g'h(i)"))
	assert.Equal(t, "%0A*%2B%26", EncodeComponent("\n*+&"))
}

func TestChatLink(t *testing.T) {
	link := ChatLink("(11) 99999-8888", "Oi Ana")
	assert.Equal(t, "https://wa.me/11999998888?text=Oi%20Ana", link)
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Olá Maria, tudo bem? Estou entrando em contato sobre suas compras.", Greeting("Maria"))
}

func TestOrderMessage(t *testing.T) {
	c := models.Customer{Name: "Maria"}
	o := models.Order{Quantity: 3, Date: time.Now()}

	t.Run("payment with price", func(t *testing.T) {
		msg := OrderMessage(MessagePayment, c, models.Product{Name: "Meias", Price: price(12.5)}, o)
		assert.True(t, strings.HasPrefix(msg, "Olá *Maria*! 👋\n\n"))
		assert.Contains(t, msg, "📦 Meias (x3)\n")
		assert.Contains(t, msg, "💰 *Total: R$ 37.50*")
	})

	t.Run("payment without price", func(t *testing.T) {
		msg := OrderMessage(MessagePayment, c, models.Product{Name: "Meias"}, o)
		assert.Contains(t, msg, "*Total: R$ A calcular*")
	})

	t.Run("label", func(t *testing.T) {
		msg := OrderMessage(MessageLabel, c, models.Product{}, o)
		assert.Contains(t, msg, "*Etiqueta de Envio*")
		assert.True(t, strings.HasSuffix(msg, "Pode me mandar por aqui?"))
	})

	t.Run("shipped", func(t *testing.T) {
		msg := OrderMessage(MessageShipped, c, models.Product{}, o)
		assert.Equal(t, "Oi Maria, ótima notícia! 🚚💨\n\nSeu pedido já foi enviado. Obrigado pela preferência!", msg)
	})
}

func TestParseMessageKind(t *testing.T) {
	k, ok := ParseMessageKind("label")
	assert.True(t, ok)
	assert.Equal(t, MessageLabel, k)

	_, ok = ParseMessageKind("invoice")
	assert.False(t, ok)
}

func TestStockBroadcast(t *testing.T) {
	products := []models.Product{
		{Name: "Kit Camisetas", RemainingQuantity: 0, Price: price(25), Status: models.ProductStatusActive},
		{Name: "Meias", RemainingQuantity: 85, Price: price(12.5), Status: models.ProductStatusActive},
		{Name: "Bonés", RemainingQuantity: 4, Status: models.ProductStatusActive},
		{Name: "Antigo", RemainingQuantity: 50, Status: models.ProductStatusArchived},
	}

	want := "*📦 ESTOQUE DISPONÍVEL - ATUALIZAÇÃO 📦*\n\n" +
		"🔹 *Meias*\n   Restam: 85 unid\n   💰 Valor: R$ 12.50\n\n" +
		"🔹 *Bonés*\n   Restam: 4 unid\n\n" +
		"👇 *Responda essa mensagem para reservar!*"
	assert.Equal(t, want, StockBroadcast(products))
}

func TestStockBroadcastEmpty(t *testing.T) {
	msg := StockBroadcast([]models.Product{{Name: "Antigo", Status: models.ProductStatusArchived}})
	assert.Equal(t, "*📦 ESTOQUE DISPONÍVEL - ATUALIZAÇÃO 📦*\n\n_Nenhum produto disponível no momento._", msg)
}
