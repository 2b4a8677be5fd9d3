package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 0, 5, 0, time.FixedZone("CET", 3600))
	op := NewOperation("Ingest", start)

	if op.ID != "20240309T130005Z" {
		t.Errorf("ID = %q, want 20240309T130005Z", op.ID)
	}
	if op.Name != "Ingest" {
		t.Errorf("Name = %q, want Ingest", op.Name)
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want success", op.Status)
	}
	if got := op.Elapsed(start.Add(1500 * time.Millisecond)); got != 1500*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 1.5s", got)
	}
}

func TestOperation_Fail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil keeps success", err: nil, want: "success"},
		{name: "error marks failure", err: errors.New("boom"), want: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("Share", time.Now())
			if got := op.Fail(tt.err); got != tt.err {
				t.Errorf("Fail() = %v, want %v", got, tt.err)
			}
			if op.Status != tt.want {
				t.Errorf("Status = %q, want %q", op.Status, tt.want)
			}
		})
	}

	t.Run("failure is sticky", func(t *testing.T) {
		op := NewOperation("Share", time.Now())
		op.Fail(errors.New("boom"))
		op.Fail(nil)
		if op.Status != "error" {
			t.Errorf("Status = %q, want error", op.Status)
		}
	})
}
