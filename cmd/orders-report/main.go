package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/fileledger"
	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "SQLite ledger path")
		csvPath  = flag.String("csv", "", "CSV ledger path")
		customer = flag.String("customer", "", "Only this customer's orders")
	)
	flag.Parse()

	if (*dbPath == "") == (*csvPath == "") {
		log.Fatal("exactly one of --db or --csv required")
	}

	ctx := context.Background()

	var (
		led ledger.Ledger
		err error
	)
	if *dbPath != "" {
		led, err = sqlite.Open(ctx, *dbPath)
	} else {
		led, err = fileledger.Open(*csvPath)
	}
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer led.Close()

	var records []ledger.Record
	if *customer != "" {
		records, err = led.ReadByCustomer(ctx, *customer)
	} else {
		records, err = led.ReadAll(ctx)
	}
	if err != nil {
		log.Fatalf("read ledger: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No orders.")
		return
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %s  total %d\n", r.ID, r.Time.Format("2006-01-02 15:04:05"), r.CustomerID, r.Total)
		for _, l := range r.Lines {
			fmt.Printf("    %-10s %-24s x%-4d = %d\n", l.ProductCode, l.DisplayName, l.Quantity, l.LineTotal)
		}
	}
}
