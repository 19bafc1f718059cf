// Command submit runs the blog form-submission pipeline from the command
// line. Payloads come from JSON files named as arguments, from individual
// field flags, or from interactive prompts with -i.
//
// Usage:
//
//	go run ./cmd/submit [-config configs/default.yaml] payload.json ...
//	go run ./cmd/submit -title "..." -author "..." -email a@b.c -content "..." -category tech -agree
//	go run ./cmd/submit -i
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/intake"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/journal"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/stats"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/submission"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/metrics"
)

// consoleReporter prints user-facing messages to stdout.
type consoleReporter struct{}

func (consoleReporter) Report(message string) {
	fmt.Println(message)
}

func main() {
	// Deferred cleanup (journal drain, file close) must run before exiting.
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	interactive := flag.Bool("i", false, "prompt for fields interactively")
	title := flag.String("title", "", "blog title")
	author := flag.String("author", "", "author name")
	email := flag.String("email", "", "author email")
	content := flag.String("content", "", "blog content")
	category := flag.String("category", "", "blog category")
	agree := flag.Bool("agree", false, "agree to the terms and conditions")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting submission session")

	registry := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(registry)
	}

	aggregator := stats.NewAggregator()

	ctx := context.Background()
	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		w, closeJournal, err := journalWriter(cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open journal: %v\n", err)
			return 1
		}
		defer closeJournal()
		jnl = journal.New(w, cfg.Journal.BufferSize, m)
		jnl.Start(ctx)
		defer jnl.Close()
	}

	pipeline := submission.New(consoleReporter{}, submission.Options{
		Journal: jnl,
		Stats:   aggregator,
		Metrics: m,
	})

	var accepted, attempted int
	switch {
	case *interactive:
		accepted, attempted = runInteractive(ctx, pipeline)
	case flag.NArg() > 0:
		accepted, attempted = runFiles(ctx, pipeline, flag.Args())
	default:
		accepted, attempted = runFlags(ctx, pipeline, map[string]string{
			"blogTitle":   *title,
			"authorName":  *author,
			"email":       *email,
			"blogContent": *content,
			"category":    *category,
			"termsAgreed": fmt.Sprintf("%t", *agree),
		})
	}

	printSummary(aggregator)
	if cfg.Metrics.Enabled {
		printMetrics(registry)
	}

	if attempted > 0 && accepted == 0 {
		return 1
	}
	return 0
}

// runFiles submits each named JSON payload file in order.
func runFiles(ctx context.Context, pipeline *submission.Pipeline, paths []string) (accepted, attempted int) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
			attempted++
			continue
		}
		payload, err := intake.ParsePayload(data)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			attempted++
			continue
		}
		attempted++
		if submit(ctx, pipeline, payload) {
			accepted++
		}
	}
	return accepted, attempted
}

// runFlags builds a single payload from the field flags and submits it.
func runFlags(ctx context.Context, pipeline *submission.Pipeline, values map[string]string) (accepted, attempted int) {
	form := intake.NewForm()
	for _, field := range form.Fields() {
		if err := form.Set(field, values[field]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 0, 1
		}
	}
	payload, err := form.Payload()
	if err != nil {
		fmt.Printf("%v\n", err)
		return 0, 1
	}
	if submit(ctx, pipeline, payload) {
		return 1, 1
	}
	return 0, 1
}

// runInteractive prompts for each field on stdin, one form per pass, until
// EOF. The form is reset after every accepted submission.
func runInteractive(ctx context.Context, pipeline *submission.Pipeline) (accepted, attempted int) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	form := intake.NewForm()

	for {
		fmt.Println("=== New Submission ===")
		complete := true
		for _, field := range form.Fields() {
			fmt.Printf("%s: ", field)
			if !scanner.Scan() {
				complete = false
				break
			}
			if err := form.Set(field, strings.TrimSpace(scanner.Text())); err != nil {
				fmt.Printf("%v\n", err)
			}
		}
		if !complete {
			return accepted, attempted
		}

		payload, err := form.Payload()
		if err != nil {
			fmt.Printf("%v\n", err)
			attempted++
			continue
		}
		attempted++
		if submit(ctx, pipeline, payload) {
			accepted++
			form.Reset()
		}
	}
}

// submit runs one payload through the pipeline and prints the outcome. The
// user-facing acknowledgment or rejection message arrives via the reporter.
func submit(ctx context.Context, pipeline *submission.Pipeline, payload submission.FormPayload) bool {
	result, err := pipeline.HandleSubmit(ctx, payload)
	if err != nil {
		return false
	}

	pretty, err := json.MarshalIndent(result.Payload, "", "  ")
	if err != nil {
		slog.Error("failed to render enriched payload", "error", err)
		return true
	}
	fmt.Println(string(pretty))
	fmt.Printf("Running count: %d\n\n", result.Count)
	return true
}

// journalWriter opens the journal destination. An empty path means stdout.
func journalWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func printSummary(aggregator *stats.Aggregator) {
	snapshot := aggregator.Snapshot()

	fmt.Println("=== Session Summary ===")
	fmt.Printf("Accepted:  %d\n", snapshot.Accepted)
	fmt.Printf("Rejected:  %d\n", snapshot.Rejected)

	if len(snapshot.RejectionsByReason) > 0 {
		reasons := make([]string, 0, len(snapshot.RejectionsByReason))
		for reason := range snapshot.RejectionsByReason {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Printf("  %s: %d\n", reason, snapshot.RejectionsByReason[reason])
		}
	}

	if snapshot.Accepted > 0 {
		fmt.Println()
		fmt.Println("=== Content Length ===")
		fmt.Printf("Avg:  %.1f\n", snapshot.AvgContentLength)
		fmt.Printf("P50:  %d\n", snapshot.P50ContentLength)
		fmt.Printf("P95:  %d\n", snapshot.P95ContentLength)
		fmt.Printf("P99:  %d\n", snapshot.P99ContentLength)

		if len(snapshot.SubmissionsByCategory) > 0 {
			fmt.Println()
			fmt.Println("=== Categories ===")
			categories := make([]string, 0, len(snapshot.SubmissionsByCategory))
			for category := range snapshot.SubmissionsByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				fmt.Printf("  %s: %d\n", category, snapshot.SubmissionsByCategory[category])
			}
		}
	}
	fmt.Println()
}

// printMetrics gathers the registry and prints the counter values.
func printMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		slog.Error("failed to gather metrics", "error", err)
		return
	}

	fmt.Println("=== Metrics ===")
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", label.GetName(), label.GetValue()))
			}
			name := family.GetName()
			if len(labels) > 0 {
				name = fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
			}
			fmt.Printf("  %s: %.0f\n", name, metric.GetCounter().GetValue())
		}
	}
}
