package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/auswx/bomwx/internal/adapter/aprs"
	"github.com/auswx/bomwx/internal/domain"
	"github.com/auswx/bomwx/internal/observability"
)

// Extractor retrieves the wanted station files for one run.
type Extractor interface {
	Fetch(ctx context.Context) ([]domain.SourceFile, error)
}

// Sender owns the APRS-IS session a run transmits through.
type Sender interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, callsign, payload string) error
}

// Pipeline drives one fetch-convert-send run per Run call. The Pipeline
// itself is long-lived (interval mode reuses it), but each run brings its own
// Sender: a session lives exactly as long as a run.
type Pipeline struct {
	extractor Extractor
	resolver  domain.CallsignResolver
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	spacing   time.Duration
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(extractor Extractor, resolver domain.CallsignResolver, logger *slog.Logger,
	metrics *observability.Metrics, clock clockwork.Clock, spacing time.Duration) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		resolver:  resolver,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		spacing:   spacing,
	}
}

// CheckReadiness returns nil once at least one run has transmitted a packet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no packets transmitted yet")
	}
	return nil
}

// Run executes one run and returns the number of packets sent. Retrieval and
// session establishment failures are fatal; per-station failures are logged
// and skipped, so partial success is a normal outcome.
func (p *Pipeline) Run(ctx context.Context, sender Sender) (int, error) {
	start := time.Now()
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)
	defer func() { p.metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	files, err := p.extractor.Fetch(ctx)
	if err != nil {
		p.metrics.Runs.WithLabelValues("retrieval_failed").Inc()
		return 0, fmt.Errorf("retrieve observations: %w", err)
	}
	p.metrics.ArchiveFetchDuration.Observe(time.Since(start).Seconds())

	// Connect eagerly: a run that cannot log in should fail before any
	// station work, not midway through.
	if err := sender.Connect(ctx); err != nil {
		p.metrics.Runs.WithLabelValues("session_failed").Inc()
		return 0, fmt.Errorf("establish aprs-is session: %w", err)
	}

	sent := 0
	cancelled := false
	for _, file := range files {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		if err := p.processStation(ctx, sender, file, &sent); err != nil {
			p.metrics.Runs.WithLabelValues("session_failed").Inc()
			return sent, err
		}
	}

	outcome := "ok"
	if cancelled {
		outcome = "cancelled"
	}
	p.metrics.Runs.WithLabelValues(outcome).Inc()
	if sent > 0 {
		p.ready.Store(true)
	}
	p.logger.Info("run complete", "stations", len(files), "packets_sent", sent)
	return sent, nil
}

// processStation converts and transmits one station file. Only a reconnect
// storm is fatal; every other failure skips the station and the run goes on.
func (p *Pipeline) processStation(ctx context.Context, sender Sender, file domain.SourceFile, sent *int) error {
	obsFile, err := domain.ParseObservationFile(file.Data)
	if err != nil {
		reason := "parse"
		if errors.Is(err, domain.ErrNoObservations) {
			reason = "empty"
		}
		p.skip(file.Name, reason, err)
		return nil
	}

	// data[0] is the newest reading by the feed's convention.
	latest, _ := obsFile.Latest()

	payload, err := buildReport(latest, commentFor(obsFile.StationName, file.Name))
	if err != nil {
		p.skip(file.Name, "encode", err)
		return nil
	}

	callsign := p.resolver.Resolve(file.Name, obsFile.StationName)

	if err := sender.Send(ctx, callsign, payload); err != nil {
		if errors.Is(err, aprs.ErrReconnectStorm) {
			return err
		}
		p.skip(file.Name, "send", err)
		return nil
	}

	*sent++
	p.metrics.PacketsSent.Inc()
	p.logger.Info("packet sent",
		"file", file.Name,
		"callsign", callsign,
		"observed", latest.LocalDateTime,
		"payload", payload,
	)

	p.pace(ctx)
	return nil
}

func (p *Pipeline) skip(file, reason string, err error) {
	p.metrics.PacketsSkipped.WithLabelValues(reason).Inc()
	p.logger.Warn("station skipped", "file", file, "reason", reason, "error", err)
}

// pace holds the inter-send delay the upstream server expects, or returns
// early on cancellation.
func (p *Pipeline) pace(ctx context.Context) {
	if p.spacing <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-p.clock.After(p.spacing):
	}
}
