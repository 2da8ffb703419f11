package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/extract"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
)

// Client calls an OpenAI-compatible chat completion endpoint to extract
// order lines when the local pipeline found nothing. A single attempt per
// message; the caller owns the timeout via ctx.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// fallbackLine is the shape the model is asked to reply with.
type fallbackLine struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// ExtractLines asks the model for structured order lines. Transport
// failures, non-2xx statuses and malformed envelopes all collapse to
// ErrFallbackUnavailable; a well-formed reply that simply contains no
// usable lines returns (nil, nil).
func (c *Client) ExtractLines(ctx context.Context, cat *catalog.Catalog, raw string) ([]extract.Line, error) {
	if c.BaseURL == "" || c.Model == "" {
		return nil, fmt.Errorf("%w: base URL and model required", internalerr.ErrFallbackUnavailable)
	}

	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(cat, raw)},
	}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrFallbackUnavailable, err)
	}
	if len(payload.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", internalerr.ErrFallbackUnavailable)
	}

	return parseLines(payload.Choices[0].Message.Content, cat), nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 25 * time.Second}
}

const systemPrompt = "You are an ordering assistant. Extract the ordered products from the customer message. " +
	"Reply with ONLY a JSON array of objects {\"product_code\": string, \"quantity\": integer}, " +
	"using product codes from the catalog. Reply with [] if nothing matches."

func userPrompt(cat *catalog.Catalog, raw string) string {
	var buf bytes.Buffer
	buf.WriteString("Catalog:\n")
	for _, p := range cat.Products() {
		fmt.Fprintf(&buf, "- code %s: %s, unit price %d\n", p.Code, p.DisplayName, p.UnitPrice)
	}
	fmt.Fprintf(&buf, "\nCustomer message:\n%s\n", raw)
	return buf.String()
}

// parseLines defensively extracts the first JSON array from the model
// reply and keeps only pairs naming a real product with a sane quantity.
// Anything unusable yields zero lines, never an error.
func parseLines(content string, cat *catalog.Catalog) []extract.Line {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil
	}

	var raw []fallbackLine
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil
	}

	var lines []extract.Line
	for _, fl := range raw {
		product, ok := cat.ByCode(fl.ProductCode)
		if !ok {
			continue
		}
		if fl.Quantity < 1 || fl.Quantity > extract.MaxQuantity {
			continue
		}
		lines = append(lines, extract.Line{
			Product:   product,
			Quantity:  fl.Quantity,
			LineTotal: product.UnitPrice * int64(fl.Quantity),
		})
	}
	return lines
}
