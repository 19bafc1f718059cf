// Package journal provides an asynchronous, bounded journal of submission
// outcomes. Records are encoded as JSON, one per line, and written to a local
// writer by a background goroutine. Recording never blocks the caller: when
// the buffer is full the record is dropped and counted.
package journal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/metrics"
)

// Record kinds.
const (
	KindAccepted = "accepted"
	KindRejected = "rejected"
)

// Record is one journal line. Accepted records carry the payload summary;
// rejected records carry the reason and user-facing message.
type Record struct {
	Kind           string    `json:"kind"`
	SubmissionID   string    `json:"submission_id"`
	Title          string    `json:"title,omitempty"`
	Email          string    `json:"email,omitempty"`
	Category       string    `json:"category,omitempty"`
	Digest         string    `json:"digest,omitempty"`
	SubmissionDate string    `json:"submission_date,omitempty"`
	Count          int64     `json:"count,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Message        string    `json:"message,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Journal writes submission records to w from a background goroutine.
type Journal struct {
	w       io.Writer
	records chan Record
	done    chan struct{}
	dropped atomic.Int64
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// New creates a Journal with the given buffer size. m may be nil; when set,
// dropped records increment the journal_dropped_total counter.
func New(w io.Writer, bufferSize int, m *metrics.Metrics) *Journal {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Journal{
		w:       w,
		records: make(chan Record, bufferSize),
		done:    make(chan struct{}),
		metrics: m,
		logger:  slog.Default().With("component", "journal"),
	}
}

// Start launches the background encoder. It returns immediately; the loop
// runs until Close or until ctx is cancelled, whichever comes first.
func (j *Journal) Start(ctx context.Context) {
	go func() {
		defer close(j.done)
		encoder := json.NewEncoder(j.w)

		for {
			select {
			case rec, ok := <-j.records:
				if !ok {
					return
				}
				j.write(encoder, rec)
			case <-ctx.Done():
				// Drain whatever is already buffered, then stop.
				for {
					select {
					case rec, ok := <-j.records:
						if !ok {
							return
						}
						j.write(encoder, rec)
					default:
						return
					}
				}
			}
		}
	}()
	j.logger.Info("journal started", "buffer_size", cap(j.records))
}

// Record enqueues rec without blocking. Records sent after Close, or while
// the buffer is full, are dropped with a warning.
func (j *Journal) Record(rec Record) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.drop(rec)
		return
	}
	select {
	case j.records <- rec:
	default:
		j.drop(rec)
	}
}

// Dropped returns the number of records dropped so far.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Close stops accepting records, drains the buffer, and joins the background
// goroutine. Safe to call more than once.
func (j *Journal) Close() {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.records)
	}
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) write(encoder *json.Encoder, rec Record) {
	if err := encoder.Encode(rec); err != nil {
		j.logger.Error("journal write failed",
			"submission_id", rec.SubmissionID,
			"error", err,
		)
	}
}

func (j *Journal) drop(rec Record) {
	j.dropped.Add(1)
	if j.metrics != nil {
		j.metrics.JournalDropped.Inc()
	}
	j.logger.Warn("journal buffer full, record dropped",
		"submission_id", rec.SubmissionID,
		"kind", rec.Kind,
	)
}
