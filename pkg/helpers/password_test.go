package helpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash equals plain text")
	}
	if !CompareHashAndPassword(hash, "hunter22") {
		t.Fatalf("correct password rejected")
	}
	if CompareHashAndPassword(hash, "hunter23") {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22", 99)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
