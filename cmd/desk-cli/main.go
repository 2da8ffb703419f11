package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/orderdesk/orderdesk/internal/llm"
	"github.com/orderdesk/orderdesk/pkg/orderdesk"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/config"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/memledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/sqlite"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "Catalog YAML file (required)")
		dbPath      = flag.String("db", "", "SQLite ledger path (in-memory ledger when empty)")
		message     = flag.String("message", "", "One-shot message (non-interactive mode)")
		sender      = flag.String("sender", "cli", "Sender identifier")
		llmBaseURL  = flag.String("llm-url", "", "OpenAI-compatible chat completions URL (optional)")
		llmModel    = flag.String("llm-model", "", "Model name for the fallback call")
	)
	flag.Parse()

	if *catalogPath == "" {
		log.Fatal("--catalog required")
	}

	cat, err := config.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	ctx := context.Background()

	var led ledger.Ledger = memledger.New()
	if *dbPath != "" {
		led, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open ledger: %v", err)
		}
	}
	defer led.Close()

	var fallback orderdesk.Fallback
	if *llmBaseURL != "" && *llmModel != "" {
		fallback = &llm.Client{
			BaseURL: *llmBaseURL,
			Model:   *llmModel,
			APIKey:  os.Getenv(config.APIKeyEnv),
		}
	}

	desk, err := orderdesk.New(orderdesk.Options{
		Catalog:  cat,
		Ledger:   led,
		Fallback: fallback,
	})
	if err != nil {
		log.Fatal(err)
	}

	// One-shot mode
	if *message != "" {
		reply, err := desk.Handle(ctx, orderdesk.Message{Sender: *sender, Body: *message})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text)
		return
	}

	// Interactive mode
	fmt.Println("orderdesk CLI — type a message (Ctrl+D to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		body := strings.TrimSpace(scanner.Text())
		if body == "" {
			continue
		}
		reply, err := desk.Handle(ctx, orderdesk.Message{Sender: *sender, Body: body})
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Println(reply.Text)
	}
	fmt.Println("\nGoodbye!")
}
