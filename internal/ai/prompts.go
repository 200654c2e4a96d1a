package ai

import "fmt"

// OrderExtractionPrompt asks for the fields of models.OrderHints. %s is
// the raw chat message.
const OrderExtractionPrompt = `Analise a seguinte mensagem de pedido via WhatsApp e extraia os dados estruturados.
A mensagem é: "%s"

Tente identificar:
- Nome do cliente
- Endereço completo (se houver)
- Número de WhatsApp ou telefone (se houver)
- Palavras-chave do produto desejado
- Quantidade desejada (se for um número solto perto de palavras de produto, assuma que é a quantidade. Se não houver, assuma 1)
`

// BuildExtractionPrompt embeds message in the extraction prompt
func BuildExtractionPrompt(message string) string {
	return fmt.Sprintf(OrderExtractionPrompt, message)
}
