// Package diag is the debug core's own diagnostics surface: a small HTTP
// dashboard exposing the process-wide logger tail, a live chart of halt/
// resume events per core, and (through statsview) Go runtime stats — all
// useful when the core itself is misbehaving and a println isn't enough.
// None of this is on the critical path of any spec.md operation; armdpm and
// mipspracc work with no Dashboard running at all.
package diag

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/statsview"
	"github.com/rs/cors"

	"github.com/probelab/dbgcore/logger"
)

// eventSample is one point on the halt/resume event chart.
type eventSample struct {
	at    time.Time
	label string
	count int
}

// Dashboard serves /diag/log and /diag/events.html on one HTTP server;
// statsview serves /debug/statsview/ on a second server of its own (see
// Start).
type Dashboard struct {
	mu      sync.Mutex
	counts  map[string]int
	history []eventSample

	srv *http.Server
}

// NewDashboard builds a Dashboard; call Start to actually listen.
func NewDashboard() *Dashboard {
	return &Dashboard{counts: make(map[string]int)}
}

// RecordEvent bumps label's running count and appends a chart sample,
// keeping only the most recent 200 points so the dashboard stays cheap to
// render under a long session.
func (d *Dashboard) RecordEvent(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.counts[label]++
	d.history = append(d.history, eventSample{at: time.Now(), label: label, count: d.counts[label]})
	if len(d.history) > 200 {
		d.history = d.history[len(d.history)-200:]
	}
}

func (d *Dashboard) eventsChart() *charts.Line {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "debug core events"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
	)

	byLabel := make(map[string][]opts.LineData)
	var x []string
	for i, s := range d.history {
		x = append(x, fmt.Sprintf("%d", i))
		byLabel[s.label] = append(byLabel[s.label], opts.LineData{Value: s.count})
	}
	line.SetXAxis(x)
	for label, data := range byLabel {
		line.AddSeries(label, data)
	}
	return line
}

func (d *Dashboard) mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/diag/log", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		logger.Tail(w, 200)
	})

	mux.HandleFunc("/diag/events.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		d.eventsChart().Render(w)
	})

	return mux
}

// Start listens on addr (eg. ":6969") and serves until Stop is called or
// the process exits. Errors after the listener is up (including a clean
// Stop) are delivered on the returned channel; a caller uninterested in
// them can simply not read it.
//
// statsview runs its own server on its default address (/debug/statsview/)
// rather than sharing addr's mux — that's the one-liner its own docs show,
// statsview.New().Start(), and it isn't built to be mounted onto a caller's
// ServeMux.
func (d *Dashboard) Start(addr string) <-chan error {
	statsview.New().Start()

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(d.mux())

	d.srv = &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() { errCh <- d.srv.ListenAndServe() }()
	return errCh
}

// Stop gracefully shuts the dashboard down, waiting up to 5 seconds for
// in-flight requests (principally a long chart render) to finish.
func (d *Dashboard) Stop() error {
	if d.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.srv.Shutdown(ctx)
}
