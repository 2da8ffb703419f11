package memledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/ledger"
)

func record(id, customer string) ledger.Record {
	return ledger.NewRecord(id, time.Now(), customer, []ledger.Line{
		{ProductCode: "SFO-1L", DisplayName: "Sunflower Oil 1L", Quantity: 2, UnitPrice: 150, LineTotal: 300},
	}, "raw "+id)
}

func TestAppendAndRead(t *testing.T) {
	ctx := context.Background()
	l := New()

	if err := l.Append(ctx, record("a", "c1")); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(ctx, record("b", "c2")); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(ctx, record("c", "c1")); err != nil {
		t.Fatal(err)
	}

	all, err := l.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "a" || all[2].ID != "c" {
		t.Fatalf("ReadAll = %+v", all)
	}

	c1, err := l.ReadByCustomer(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(c1) != 2 || c1[0].ID != "a" || c1[1].ID != "c" {
		t.Fatalf("ReadByCustomer = %+v", c1)
	}
}

func TestReadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	l := New()
	if err := l.Append(ctx, record("a", "c1")); err != nil {
		t.Fatal(err)
	}

	first, _ := l.ReadAll(ctx)
	first[0].Lines[0].Quantity = 99

	again, _ := l.ReadAll(ctx)
	if again[0].Lines[0].Quantity != 2 {
		t.Error("ledger record was mutated through a read")
	}
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	l := New()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.Append(ctx, record(fmt.Sprintf("id-%d", i), "c1")); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	all, err := l.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != n {
		t.Fatalf("expected %d records, got %d", n, len(all))
	}
	seen := make(map[string]struct{}, n)
	for _, r := range all {
		if len(r.Lines) != 1 {
			t.Errorf("record %s is torn: %+v", r.ID, r)
		}
		if _, dup := seen[r.ID]; dup {
			t.Errorf("record %s appended twice", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
}
