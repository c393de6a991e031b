package archive

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/portfolio"
)

func testReport() *portfolio.PerformanceReport {
	return &portfolio.PerformanceReport{
		TotalGainLoss: portfolio.GainLoss{
			Realized:   decimal.RequireFromString("560"),
			Unrealized: decimal.RequireFromString("120"),
		},
		AssetsByMonth: map[string]decimal.Decimal{
			"2024-03": decimal.RequireFromString("560"),
		},
		AssetsByAsset: map[string]decimal.Decimal{
			"AAPL": decimal.RequireFromString("3"),
		},
		UnrealizedByAsset: map[string]decimal.Decimal{
			"AAPL": decimal.RequireFromString("120"),
		},
		InvestmentTypes: map[string]int{"stocks": 1},
		OpenLots: map[string][]portfolio.Lot{
			"AAPL": {
				{Symbol: "AAPL", Quantity: decimal.RequireFromString("3"), UnitCost: decimal.RequireFromString("150")},
			},
		},
	}
}

func TestSnapshotter_RoundTrip(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}

	s := NewSnapshotter(backend)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
	}

	ctx := context.Background()
	key, err := s.Snapshot(ctx, "acct-1", testReport())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if key != "reports/acct-1/2024-03-15T09-30-00Z.json" {
		t.Errorf("unexpected key: %s", key)
	}

	loaded, err := s.Load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.TotalGainLoss.Realized.Equal(decimal.RequireFromString("560")) {
		t.Errorf("realized gain did not survive round trip: %s", loaded.TotalGainLoss.Realized)
	}
	if !loaded.AssetsByMonth["2024-03"].Equal(decimal.RequireFromString("560")) {
		t.Errorf("monthly series did not survive round trip")
	}

	lots := loaded.OpenLots["AAPL"]
	if len(lots) != 1 {
		t.Fatalf("expected 1 open AAPL lot in snapshot, got %d", len(lots))
	}
	if !lots[0].Quantity.Equal(decimal.RequireFromString("3")) || !lots[0].UnitCost.Equal(decimal.RequireFromString("150")) {
		t.Errorf("open lot did not survive round trip: %+v", lots[0])
	}

	raw, err := backend.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(string(raw), `"open_lots"`) {
		t.Error("expected archived blob to carry open_lots")
	}
}

func TestSnapshotter_ListPerAccount(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}
	s := NewSnapshotter(backend)

	ctx := context.Background()
	if _, err := s.Snapshot(ctx, "acct-1", testReport()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := s.Snapshot(ctx, "acct-2", testReport()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	keys, err := s.ListSnapshots(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected 1 snapshot for acct-1, got %d", len(keys))
	}

	empty, err := s.ListSnapshots(ctx, "acct-3")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no snapshots, got %d", len(empty))
	}
}

func TestLocalFS_Delete(t *testing.T) {
	backend, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}

	ctx := context.Background()
	if err := backend.Put(ctx, "reports/x/a.json", []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := backend.Delete(ctx, "reports/x/a.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := backend.Get(ctx, "reports/x/a.json"); err == nil {
		t.Error("expected error reading deleted key")
	}
}
