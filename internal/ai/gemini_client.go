package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/utils"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.5-flash"

// GeminiClient interacts with Google Gemini API using the official SDK
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a client whose model answers in JSON shaped by
// the order hints schema
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = OrderHintsSchema()

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Close closes the client connection
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateContent sends a prompt to Gemini and returns the response text
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var fullText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText.WriteString(string(txt))
		}
	}

	return fullText.String(), nil
}

// Extract asks Gemini to pull order details out of a chat message.
// A nil result with a nil error means the model produced nothing usable.
func (c *GeminiClient) Extract(ctx context.Context, message string) (*models.OrderHints, error) {
	raw, err := c.GenerateContent(ctx, BuildExtractionPrompt(message))
	if err != nil {
		return nil, err
	}
	hints, err := ParseHints(raw)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Unparseable extraction response")
		return nil, nil
	}
	return hints, nil
}

// ParseHints decodes a model response. Empty output yields nil hints.
func ParseHints(raw string) (*models.OrderHints, error) {
	cleaned := utils.SanitizeJSON(raw)
	if cleaned == "" || cleaned == "null" {
		return nil, nil
	}
	var hints models.OrderHints
	if err := json.Unmarshal([]byte(cleaned), &hints); err != nil {
		return nil, fmt.Errorf("invalid hints JSON: %w", err)
	}
	return &hints, nil
}

// OrderHintsSchema is the response schema for extraction
func OrderHintsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"customerName":    {Type: genai.TypeString, Description: "Nome do cliente extraído"},
			"customerAddress": {Type: genai.TypeString, Description: "Endereço completo de entrega"},
			"customerPhone":   {Type: genai.TypeString, Description: "Número de telefone ou whatsapp"},
			"productKeywords": {Type: genai.TypeString, Description: "Termos chave que identificam o produto"},
			"quantity":        {Type: genai.TypeNumber, Description: "Quantidade de itens pedidos"},
		},
		Required: []string{"quantity"},
	}
}

// Disabled stands in for Gemini when no API key is configured
type Disabled struct{}

// Extract always reports that nothing could be extracted
func (Disabled) Extract(ctx context.Context, _ string) (*models.OrderHints, error) {
	logger.FromContext(ctx).Warn().Msg("GEMINI_API_KEY missing, smart-fill unavailable")
	return nil, nil
}

func (Disabled) Close() error { return nil }
