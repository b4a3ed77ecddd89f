package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches ErrNoRows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fmt.Errorf("pq: relation fixtures does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestNullableString(t *testing.T) {
	t.Run("empty becomes nil", func(t *testing.T) {
		if got := nullableString(""); got != nil {
			t.Fatalf("expected nil, got %q", *got)
		}
	})

	t.Run("non-empty is preserved", func(t *testing.T) {
		got := nullableString("provider timeout")
		if got == nil || *got != "provider timeout" {
			t.Fatalf("unexpected value: %v", got)
		}
	})
}
