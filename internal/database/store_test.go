package database

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestSaveUsageValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		rec     *UsageRecord
		wantErr bool
	}{
		{
			name: "valid record",
			rec:  &UsageRecord{ChatID: 1, Intent: "answer", Success: true, DurationMS: 120},
		},
		{
			name:    "nil record",
			rec:     nil,
			wantErr: true,
		},
		{
			name:    "missing chat id",
			rec:     &UsageRecord{Intent: "answer"},
			wantErr: true,
		},
		{
			name:    "missing intent",
			rec:     &UsageRecord{ChatID: 1},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := store.SaveUsage(ctx, tc.rec)
			if (err != nil) != tc.wantErr {
				t.Errorf("SaveUsage() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetUsageStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []*UsageRecord{
		{ChatID: 1, Intent: "answer", Success: true},
		{ChatID: 1, Intent: "answer", Success: true},
		{ChatID: 2, Intent: "answer", Success: false},
		{ChatID: 2, Intent: "report", Success: true},
	}
	for _, rec := range records {
		if err := store.SaveUsage(ctx, rec); err != nil {
			t.Fatalf("SaveUsage() error = %v", err)
		}
	}

	stats, err := store.GetUsageStats(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetUsageStats() error = %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("stats count = %d, want 2: %+v", len(stats), stats)
	}

	// Ordered by total descending: answer first.
	if stats[0].Intent != "answer" || stats[0].Total != 3 || stats[0].Failed != 1 {
		t.Errorf("answer stats = %+v, want total 3 failed 1", stats[0])
	}
	if stats[1].Intent != "report" || stats[1].Total != 1 || stats[1].Failed != 0 {
		t.Errorf("report stats = %+v, want total 1 failed 0", stats[1])
	}
}

func TestGetUsageStatsWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveUsage(ctx, &UsageRecord{ChatID: 1, Intent: "slides", Success: true}); err != nil {
		t.Fatalf("SaveUsage() error = %v", err)
	}

	stats, err := store.GetUsageStats(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GetUsageStats() error = %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("stats in future window = %+v, want none", stats)
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() error = %v", err)
	}
}
