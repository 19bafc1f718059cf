package journal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRecord(id string) Record {
	return Record{
		Kind:         KindAccepted,
		SubmissionID: id,
		Title:        "Title " + id,
		Email:        "author@example.com",
		Category:     "testing",
		Count:        1,
		Timestamp:    time.Date(2025, time.April, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestJournalWritesRecordsInOrder(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, 16, nil)
	j.Start(context.Background())

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		j.Record(testRecord(id))
	}
	j.Close()

	scanner := bufio.NewScanner(&buf)
	var got []string
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("journal line is not valid JSON: %v", err)
		}
		got = append(got, rec.SubmissionID)
	}
	if len(got) != len(ids) {
		t.Fatalf("journal has %d records, want %d", len(got), len(ids))
	}
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("record %d = %q, want %q", i, got[i], id)
		}
	}
}

func TestJournalRejectedRecordShape(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, 4, nil)
	j.Start(context.Background())

	j.Record(Record{
		Kind:         KindRejected,
		SubmissionID: "r1",
		Reason:       "content_too_short",
		Message:      "Blog content must be longer than 25 characters.",
		Timestamp:    time.Now(),
	})
	j.Close()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if rec["kind"] != KindRejected {
		t.Errorf("kind = %v, want %q", rec["kind"], KindRejected)
	}
	// Accepted-only fields are omitted on rejections.
	for _, key := range []string{"title", "email", "digest", "count"} {
		if _, ok := rec[key]; ok {
			t.Errorf("rejected record carries %q", key)
		}
	}
}

func TestJournalDropsWhenBufferFull(t *testing.T) {
	// Never start the encoder, so the buffer fills up.
	var buf bytes.Buffer
	j := New(&buf, 2, nil)

	for i := 0; i < 5; i++ {
		j.Record(testRecord("x"))
	}
	if got := j.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, want 3", got)
	}

	// Drain so Close can join.
	j.Start(context.Background())
	j.Close()
}

func TestJournalRecordAfterClose(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, 4, nil)
	j.Start(context.Background())
	j.Close()

	// Must not panic, must count as dropped.
	j.Record(testRecord("late"))
	if got := j.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	// Close is idempotent.
	j.Close()
}

func TestJournalDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, 64, nil)
	j.Start(context.Background())

	for i := 0; i < 50; i++ {
		j.Record(testRecord("d"))
	}
	j.Close()

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		lines++
	}
	if lines != 50 {
		t.Errorf("journal has %d records after Close, want 50", lines)
	}
}
