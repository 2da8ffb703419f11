package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
)

type stubTransport struct {
	fn func(*http.Request) *http.Response
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return s.fn(req), nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{Code: "SFO-1L", DisplayName: "Sunflower Oil 1L", UnitPrice: 150},
		{Code: "GNO-1L", DisplayName: "Groundnut Oil 1L", UnitPrice: 180},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func client(fn func(*http.Request) *http.Response) *Client {
	return &Client{
		BaseURL:    "https://llm.local/v1/chat/completions",
		Model:      "test-model",
		HTTPClient: &http.Client{Transport: stubTransport{fn: fn}},
	}
}

func chatReply(content string) *http.Response {
	body := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestExtractLines(t *testing.T) {
	c := client(func(req *http.Request) *http.Response {
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), "SFO-1L") {
			t.Fatalf("prompt should carry the catalog, got %q", body)
		}
		return chatReply(`[{"product_code":"SFO-1L","quantity":2},{"product_code":"GNO-1L","quantity":1}]`)
	})

	lines, err := c.ExtractLines(context.Background(), testCatalog(t), "need cooking oil for the week")
	if err != nil {
		t.Fatalf("ExtractLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0].Product.Code != "SFO-1L" || lines[0].Quantity != 2 || lines[0].LineTotal != 300 {
		t.Errorf("first line = %+v", lines[0])
	}
}

func TestExtractLinesProseAroundJSON(t *testing.T) {
	c := client(func(*http.Request) *http.Response {
		return chatReply("Sure! Here is the order:\n[{\"product_code\":\"GNO-1L\",\"quantity\":3}]\nAnything else?")
	})
	lines, err := c.ExtractLines(context.Background(), testCatalog(t), "groundnut please")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Product.Code != "GNO-1L" || lines[0].Quantity != 3 {
		t.Errorf("lines = %+v", lines)
	}
}

func TestExtractLinesDropsBadPairs(t *testing.T) {
	c := client(func(*http.Request) *http.Response {
		return chatReply(`[
			{"product_code":"NOPE","quantity":2},
			{"product_code":"SFO-1L","quantity":0},
			{"product_code":"SFO-1L","quantity":1}
		]`)
	})
	lines, err := c.ExtractLines(context.Background(), testCatalog(t), "whatever")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Product.Code != "SFO-1L" || lines[0].Quantity != 1 {
		t.Errorf("lines = %+v", lines)
	}
}

func TestExtractLinesMalformedContentIsNotAnError(t *testing.T) {
	for _, content := range []string{"I could not parse that.", "[not json", "{}"} {
		c := client(func(*http.Request) *http.Response { return chatReply(content) })
		lines, err := c.ExtractLines(context.Background(), testCatalog(t), "m")
		if err != nil {
			t.Errorf("content %q: unexpected error %v", content, err)
		}
		if len(lines) != 0 {
			t.Errorf("content %q: lines = %+v", content, lines)
		}
	}
}

func TestExtractLinesHTTPFailure(t *testing.T) {
	c := client(func(*http.Request) *http.Response {
		return &http.Response{
			StatusCode: 502,
			Body:       io.NopCloser(strings.NewReader("bad gateway")),
			Header:     make(http.Header),
		}
	})
	_, err := c.ExtractLines(context.Background(), testCatalog(t), "m")
	if !errors.Is(err, internalerr.ErrFallbackUnavailable) {
		t.Fatalf("expected ErrFallbackUnavailable, got %v", err)
	}
}

func TestExtractLinesTransportFailure(t *testing.T) {
	c := &Client{BaseURL: "http://127.0.0.1:0", Model: "m"}
	_, err := c.ExtractLines(context.Background(), testCatalog(t), "m")
	if !errors.Is(err, internalerr.ErrFallbackUnavailable) {
		t.Fatalf("expected ErrFallbackUnavailable, got %v", err)
	}
}

func TestExtractLinesEmptyChoices(t *testing.T) {
	c := client(func(*http.Request) *http.Response {
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"choices":[]}`)),
			Header:     make(http.Header),
		}
	})
	_, err := c.ExtractLines(context.Background(), testCatalog(t), "m")
	if !errors.Is(err, internalerr.ErrFallbackUnavailable) {
		t.Fatalf("expected ErrFallbackUnavailable, got %v", err)
	}
}
