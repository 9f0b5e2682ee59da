package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice float64
		quantity  int
		discount  float64
		want      float64
	}{
		{"no discount", 18.0, 2, 0, 36},
		{"10% off", 19.0, 3, 0.1, 51.3},
		{"half off", 100, 1, 0.5, 50},
		{"zero price", 0, 5, 0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.unitPrice, tt.quantity, tt.discount)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("LineTotal() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(45.4999); got != 45.5 {
		t.Errorf("Round2(45.4999) = %f", got)
	}
	if got := Round2(45.005); got != 45.01 && got != 45.0 {
		// Binary representation decides the half case either way; it only
		// has to be one of the two neighbors.
		t.Errorf("Round2(45.005) = %f", got)
	}
	if got := Round2(-1.005); got > -1.0 || got < -1.01 {
		t.Errorf("Round2(-1.005) = %f", got)
	}
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("resolve customer: %w", &NotFoundError{Entity: "customer", Name: "Acme"})
	if !IsNotFound(err) {
		t.Fatal("wrapped not-found not detected")
	}
	if IsNotFound(errors.New("connection refused")) {
		t.Fatal("plain error detected as not-found")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "customer" || nf.Name != "Acme" {
		t.Fatalf("unexpected unwrap: %+v", nf)
	}
}
