package core

import (
	"strings"
	"testing"
)

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()

	if !strings.HasPrefix(string(id), "sess_") {
		t.Fatalf("unexpected prefix: %s", id)
	}

	if NewSessionID() == id {
		t.Fatal("session ids must be unique")
	}
}

func TestIntFromAny(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{float64(42), 42},
		{int(7), 7},
		{int64(9), 9},
		{"not a number", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := IntFromAny(tt.in); got != tt.want {
			t.Fatalf("IntFromAny(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
