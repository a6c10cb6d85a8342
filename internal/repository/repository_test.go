package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, "sqlite", Config{DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ok := entity.Success("a.pdf", constants.Johor, entity.CanonicalRecord{
		FileName:  entity.StringPtr("a.pdf"),
		Region:    entity.StringPtr("Johor"),
		NoAkaun:   entity.StringPtr("12345678"),
		CajSemasa: "45.60", Penggunaan: "184.00", Tunggakan: "0.00",
		JumlahPerluDibayar: "45.60", Deposit: "0.00",
	})
	ok.ProcessedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	failed := entity.Failure("b.pdf", constants.StatusUnknownRegion, constants.UnknownRegionMessage)
	failed.ProcessedAt = ok.ProcessedAt.Add(time.Minute)

	for _, o := range []entity.Outcome{ok, failed} {
		if err := store.SaveOutcome(ctx, o); err != nil {
			t.Fatalf("SaveOutcome: %v", err)
		}
	}
	// saving again updates in place
	if err := store.SaveOutcome(ctx, ok); err != nil {
		t.Fatalf("SaveOutcome again: %v", err)
	}

	got, err := store.ListOutcomes(ctx, 10)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	want := []entity.Outcome{failed, ok}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}

	if err := HealthCheck(ctx, store, time.Second, nil); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongo", Config{}, nil)
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("want invalid input, got %v", err)
	}
}

func TestStoredRegion(t *testing.T) {
	tests := map[string]constants.Region{
		"Johor":           constants.Johor,
		"negeri sembilan": constants.NegeriSembilan,
		"unknown":         constants.Unknown,
		"":                constants.Unknown,
	}
	for in, want := range tests {
		if got := storedRegion(in); got != want {
			t.Errorf("storedRegion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigFromCarriesStatementTimeout(t *testing.T) {
	got := ConfigFrom(common.DatabaseConfig{DSN: "postgres://x", StatementTimeout: 2 * time.Second})
	if got.StatementTimeout != 2*time.Second || got.DSN != "postgres://x" {
		t.Errorf("ConfigFrom = %+v", got)
	}
}
