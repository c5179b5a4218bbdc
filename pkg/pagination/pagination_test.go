package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit got %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("expected 7 got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out == nil || !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cur, err := ParseCursor("   ")
	if err != nil || cur != nil {
		t.Fatalf("blank cursor must yield nil, got %+v err=%v", cur, err)
	}
}

func TestParseCursorMalformed(t *testing.T) {
	if _, err := ParseCursor("!!not-base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}

type pagedRow struct {
	createdAt time.Time
	id        uuid.UUID
}

func TestNextCursorFrom(t *testing.T) {
	rows := make([]pagedRow, 4)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = pagedRow{createdAt: base.Add(time.Duration(i) * time.Minute), id: uuid.New()}
	}

	kept, next := NextCursorFrom(rows, 3, func(r pagedRow) Cursor {
		return Cursor{CreatedAt: r.createdAt, ID: r.id}
	})
	if len(kept) != 3 {
		t.Fatalf("expected 3 rows got %d", len(kept))
	}
	if next == "" {
		t.Fatalf("expected a next cursor")
	}
	cur, err := ParseCursor(next)
	if err != nil {
		t.Fatalf("parse next cursor: %v", err)
	}
	if cur.ID != rows[2].id {
		t.Fatalf("cursor should point at last kept row")
	}

	kept, next = NextCursorFrom(rows[:2], 3, func(r pagedRow) Cursor {
		return Cursor{CreatedAt: r.createdAt, ID: r.id}
	})
	if len(kept) != 2 || next != "" {
		t.Fatalf("short page must not produce a cursor")
	}
}
