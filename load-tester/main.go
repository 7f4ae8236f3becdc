package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type Config struct {
	BaseURL        string
	SiteURL        string
	Total          int
	Rate           int
	Concurrency    int
	LeadPercent    int
	DuplicatePct   int
	ReportInterval time.Duration
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.BaseURL, "base-url", "", "Backend base URL, e.g. http://localhost:8080 (required)")
	flag.StringVar(&c.SiteURL, "site-url", "https://eduexpressint.com", "Public site URL used for sourceUrl and pageUrl")
	flag.IntVar(&c.Total, "total", 5000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 100, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.LeadPercent, "lead-percent", 5, "Percent of requests that submit the lead form instead of a tracking event")
	flag.IntVar(&c.DuplicatePct, "duplicate-percent", 0, "Percent of tracking events resent with an earlier eventId")
	flag.DurationVar(&c.ReportInterval, "report", time.Second, "Progress report interval")
	flag.Parse()

	if c.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -base-url is required")
		flag.Usage()
		os.Exit(1)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Rate < 1 {
		c.Rate = 1
	}
	if c.Concurrency == 0 {
		c.Concurrency = max(c.Rate/10, 10)
	}
	c.LeadPercent = clampPercent(c.LeadPercent)
	c.DuplicatePct = clampPercent(c.DuplicatePct)
	return c
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}

type request struct {
	path string
	body map[string]any
}

// Recorder collects per-request outcomes. Latencies are kept for percentiles.
type Recorder struct {
	ok, failed atomic.Uint64

	mu        sync.Mutex
	latencies []time.Duration
	statuses  map[int]int
}

func NewRecorder(expected int) *Recorder {
	return &Recorder{latencies: make([]time.Duration, 0, expected), statuses: map[int]int{}}
}

// Observe records one response. status 0 means a transport error.
func (r *Recorder) Observe(status int, d time.Duration) {
	if status >= 200 && status < 300 {
		r.ok.Add(1)
	} else {
		r.failed.Add(1)
	}
	r.mu.Lock()
	r.latencies = append(r.latencies, d)
	r.statuses[status]++
	r.mu.Unlock()
}

func (r *Recorder) Report(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var lastOK, lastFailed uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, failed := r.ok.Load(), r.failed.Load()
			log.Printf("[progress] ok=%d (+%d) failed=%d (+%d)", ok, ok-lastOK, failed, failed-lastFailed)
			lastOK, lastFailed = ok, failed
		}
	}
}

func (r *Recorder) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := append([]time.Duration(nil), r.latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	codes := make([]int, 0, len(r.statuses))
	for code := range r.statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		label := fmt.Sprint(code)
		if code == 0 {
			label = "net_error"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, r.statuses[code]))
	}

	return fmt.Sprintf("ok=%d failed=%d p50=%s p95=%s p99=%s statuses[%s]",
		r.ok.Load(), r.failed.Load(),
		percentile(sorted, 50), percentile(sorted, 95), percentile(sorted, 99),
		strings.Join(parts, " "))
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p+99)/100 - 1
	return sorted[min(max(idx, 0), len(sorted)-1)].Round(100 * time.Microsecond)
}

// Generator builds tracking events and lead submissions. Sent event ids are
// remembered so a share of events can be replayed for dedup testing.
type Generator struct {
	cfg *Config

	mu   sync.Mutex
	rng  *rand.Rand
	seen []string
}

func NewGenerator(cfg *Config) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	trackEvents = []string{"PageView", "ViewContent", "Contact", "Schedule", "CompleteRegistration"}
	pages       = []string{"/", "/universities", "/destinations/canada", "/destinations/uk", "/scholarships", "/b2b"}
	sources     = []string{"facebook", "google", "instagram", "newsletter"}
	campaigns   = []string{"spring_intake", "uk_fair", "canada_webinar", "scholarship_week"}
	countries   = []string{"Canada", "United Kingdom", "Australia", "Germany"}
	programs    = []string{"Undergraduate", "Postgraduate", "Foundation", "PhD"}
)

func (g *Generator) Next() request {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rng.Intn(100) < g.cfg.LeadPercent {
		return request{path: "/api/leads", body: g.lead()}
	}
	return request{path: "/api/track", body: g.track()}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) attribution() map[string]string {
	attr := map[string]string{
		"utm_source":   g.pick(sources),
		"utm_medium":   "cpc",
		"utm_campaign": g.pick(campaigns),
	}
	switch g.rng.Intn(3) {
	case 0:
		attr["fbclid"] = fmt.Sprintf("IwAR%08x", g.rng.Uint32())
		attr["campaign_name"] = attr["utm_campaign"]
	case 1:
		attr["gclid"] = fmt.Sprintf("Cj0K%08x", g.rng.Uint32())
		attr["campaignid"] = fmt.Sprint(1000 + g.rng.Intn(50))
	}
	return attr
}

func (g *Generator) track() map[string]any {
	eventID := fmt.Sprintf("lt_%d_%06d", time.Now().UnixNano(), g.rng.Intn(1_000_000))
	if len(g.seen) > 0 && g.rng.Intn(100) < g.cfg.DuplicatePct {
		eventID = g.seen[g.rng.Intn(len(g.seen))]
	} else if len(g.seen) < 10_000 {
		g.seen = append(g.seen, eventID)
	}

	return map[string]any{
		"eventName":    g.pick(trackEvents),
		"eventId":      eventID,
		"eventTime":    time.Now().Unix() - int64(g.rng.Intn(60)),
		"sourceUrl":    g.cfg.SiteURL + g.pick(pages),
		"actionSource": "website",
		"contentIds":   []string{fmt.Sprintf("uni_%03d", g.rng.Intn(100))},
		"attribution":  g.attribution(),
	}
}

func (g *Generator) lead() map[string]any {
	n := g.rng.Intn(1_000_000)
	return map[string]any{
		"name":               fmt.Sprintf("Load Student %d", n),
		"email":              fmt.Sprintf("load.student.%d.%d@example.com", time.Now().UnixNano(), n),
		"phone":              fmt.Sprintf("+8801%09d", n),
		"destinationCountry": g.pick(countries),
		"programType":        g.pick(programs),
		"pageUrl":            g.cfg.SiteURL + g.pick(pages),
		"source":             "load-tester",
		"attribution":        g.attribution(),
	}
}

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("load test: target=%s rate=%d/s total=%d workers=%d leads=%d%% duplicates=%d%%",
		cfg.BaseURL, cfg.Rate, cfg.Total, cfg.Concurrency, cfg.LeadPercent, cfg.DuplicatePct)

	rec := NewRecorder(cfg.Total)
	gen := NewGenerator(cfg)

	reportCtx, stopReport := context.WithCancel(ctx)
	go rec.Report(reportCtx, cfg.ReportInterval)

	jobs := make(chan request, cfg.Concurrency*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				start := time.Now()
				status := send(ctx, client, cfg.BaseURL+req.path, req.body)
				rec.Observe(status, time.Since(start))
			}
		}()
	}

	// One request per tick keeps the rate smooth instead of bursting each second.
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Rate))
	started := time.Now()
dispatch:
	for sent := 0; sent < cfg.Total; sent++ {
		select {
		case <-ctx.Done():
			log.Printf("interrupted after %d requests", sent)
			break dispatch
		case <-ticker.C:
			jobs <- gen.Next()
		}
	}
	ticker.Stop()
	close(jobs)
	wg.Wait()
	stopReport()

	log.Printf("done in %s: %s", time.Since(started).Round(time.Millisecond), rec.Summary())
}

// send posts body as JSON and returns the HTTP status, or 0 on transport failure.
func send(ctx context.Context, client *http.Client, url string, body map[string]any) int {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "eduexpress-load-tester/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	// Drain so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode
}
