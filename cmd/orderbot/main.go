package main

import (
	"context"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderdesk/orderdesk/internal/llm"
	"github.com/orderdesk/orderdesk/pkg/orderdesk"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/config"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/fileledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/memledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to bot config YAML (required)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	cfg, err := config.LoadBot(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cat, err := config.LoadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	ctx := context.Background()
	led, err := openLedger(ctx, cfg)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer led.Close()

	var fallback orderdesk.Fallback
	if cfg.LLM.BaseURL != "" && cfg.LLM.Model != "" {
		fallback = &llm.Client{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			APIKey:  cfg.LLM.APIKey,
		}
	}

	desk, err := orderdesk.New(orderdesk.Options{
		Catalog:         cat,
		Ledger:          led,
		Fallback:        fallback,
		FallbackTimeout: cfg.FallbackTimeout(),
	})
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handleHome)
	mux.HandleFunc("POST /webhook", webhookHandler(desk))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Printf("orderbot listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openLedger(ctx context.Context, cfg config.Bot) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "sqlite":
		return sqlite.Open(ctx, cfg.Ledger.Path)
	case "csv":
		return fileledger.Open(cfg.Ledger.Path)
	case "memory":
		return memledger.New(), nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "orderbot is running")
}

// twiml is the Twilio messaging response envelope.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// webhookHandler answers Twilio-style form webhooks: Body carries the
// customer text, From the sender identifier.
func webhookHandler(desk *orderdesk.Desk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		msg := orderdesk.Message{
			Sender: r.PostFormValue("From"),
			Body:   r.PostFormValue("Body"),
		}

		reply, err := desk.Handle(r.Context(), msg)
		if err != nil {
			// Handle never fails on user input; this is a server bug.
			log.Printf("handle message from %s: %v", msg.Sender, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if reply.Record != nil {
			log.Printf("order %s from %s: total %d", reply.Record.ID, msg.Sender, reply.Record.Total)
		}

		out, err := xml.Marshal(twiml{Message: reply.Text})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(xml.Header))
		w.Write(out)
	}
}
