package models_test

import (
	"testing"

	"factory-app/models"

	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"0.125", "0.13"},
		{"250.5", "250.5"},
		{"-1.005", "-1.01"},
	}

	for _, tt := range tests {
		got := models.Round2(decimal.RequireFromString(tt.in))
		if got.String() != tt.want {
			t.Errorf("Round2(%s) = %s, want %s", tt.in, got.String(), tt.want)
		}
	}
}

func TestPendingOf(t *testing.T) {
	due := decimal.RequireFromString("100.00")

	if got := models.PendingOf(due, decimal.RequireFromString("40")); got.String() != "60" {
		t.Errorf("pending = %s, want 60", got.String())
	}
	if got := models.PendingOf(due, due); !got.IsZero() {
		t.Errorf("pending after full payment = %s, want 0", got.String())
	}
	// Overpaid data lama tidak boleh menghasilkan pending negatif
	if got := models.PendingOf(due, decimal.RequireFromString("120")); !got.IsZero() {
		t.Errorf("pending when overpaid = %s, want 0", got.String())
	}
}

func TestPendingOfRoundsResidue(t *testing.T) {
	due := decimal.RequireFromString("10.00")
	paid := decimal.RequireFromString("3.333")

	got := models.PendingOf(due, paid)
	if got.String() != "6.67" {
		t.Errorf("pending = %s, want 6.67", got.String())
	}
}
