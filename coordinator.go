package botguard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/botguard/botguard/analyzer/behavior"
	"github.com/botguard/botguard/analyzer/geo"
	"github.com/botguard/botguard/analyzer/httpfp"
	"github.com/botguard/botguard/core/circuitbreaker"
	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/core/logger"
	"github.com/botguard/botguard/core/session"
	"github.com/botguard/botguard/core/timeoutguard"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/geoasn"
	"github.com/botguard/botguard/metrics"
	"github.com/botguard/botguard/scoring"
	"github.com/botguard/botguard/settings"
	"github.com/botguard/botguard/whitelist"
)

const analyzerVersion = "botguard/1"

// Coordinator is the single request-scoped entry point for the
// detection pipeline: whitelist short-circuit, three concurrent
// analyzers under one shared deadline, scoring, metrics, and event
// publication.
type Coordinator struct {
	cfg settings.Config

	sessions  *session.Manager
	httpfp    *httpfp.Analyzer
	behavior  *behavior.Analyzer
	geo       *geo.Analyzer
	whitelist *whitelist.Manager
	scoring   *scoring.Engine
	metrics   *metrics.Recorder
	bus       *event.Bus
	log       *slog.Logger
}

// New builds a fully-wired Coordinator from cfg. geoResolver is the
// primary ASN/geo lookup strategy (typically *geoasn.DNSResolver);
// passing nil falls back to geoasn.SimulatedResolver for both the
// primary and secondary resolver.
func New(cfg settings.Config, geoResolver geoasn.Resolver, bus *event.Bus, log *slog.Logger) (*Coordinator, error) {
	scoringEngine, err := scoring.New(cfg)
	if err != nil {
		return nil, err
	}

	fpAnalyzer, err := httpfp.New(cfg.Fingerprinting)
	if err != nil {
		return nil, err
	}

	sessions := session.New(session.WithConfig(session.Config{
		MaxRequests:         session.DefaultConfig().MaxRequests,
		MaxSuspicionHistory: session.DefaultConfig().MaxSuspicionHistory,
		Timeout:             cfg.Cache.SessionTimeout,
		MaxSessions:         cfg.Cache.MaxSessions,
	}))
	behaviorAnalyzer := behavior.New(sessions, cfg.Behavioral)

	if geoResolver == nil {
		geoResolver = geoasn.SimulatedResolver{}
	}
	geoAnalyzer := geo.New(geoResolver, geoasn.SimulatedResolver{}, cfg.Cache.MaxGeo,
		circuitbreaker.Config{
			FailureThreshold: cfg.Resilience.GeoCircuit.FailureThreshold,
			RecoveryTimeout:  cfg.Resilience.GeoCircuit.RecoveryTimeout,
			MinimumRequests:  cfg.Resilience.GeoCircuit.MinimumRequests,
		},
		cfg.Resilience.PerAnalyzerTimeoutMs.Geo, cfg.Geographic)

	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logger.New(logger.WithProduction("botguard"))
	}

	return &Coordinator{
		cfg:       cfg,
		sessions:  sessions,
		httpfp:    fpAnalyzer,
		behavior:  behaviorAnalyzer,
		geo:       geoAnalyzer,
		whitelist: whitelist.New(cfg.Whitelist),
		scoring:   scoringEngine,
		metrics:   metrics.New(1000),
		bus:       bus,
		log:       log,
	}, nil
}

// Whitelist exposes the whitelist manager so callers can add/remove
// entries without reaching into package internals.
func (c *Coordinator) Whitelist() *whitelist.Manager { return c.whitelist }

// Metrics returns a point-in-time analytics snapshot.
func (c *Coordinator) Metrics() metrics.Analytics { return c.metrics.Snapshot() }

// analyzerOutcome carries one analyzer's result plus the bookkeeping
// the coordinator needs after the fan-out completes.
type analyzerOutcome struct {
	fingerprint detect.HTTPFingerprint
	behaviorM   detect.BehaviorMetrics
	geoLocation detect.GeoLocation

	fpDuration  time.Duration
	behDuration time.Duration
	geoDuration time.Duration

	timeoutOccurred bool
	fallbackReason  string
}

// Analyze runs the full detection pipeline for one request.
func (c *Coordinator) Analyze(ctx context.Context, req detect.RequestView, ip string, reputation *int) detect.Result {
	correlationID := uuid.New().String()
	log := c.log.With(slog.String("correlationId", correlationID), logger.ClientIP(ip), logger.Path(req.Path), logger.Method(req.Method))

	if result := c.whitelist.Check(req, nil, req.Fingerprint); result.IsWhitelisted {
		if result.BypassType == whitelist.BypassMonitoringTool {
			log.Debug("monitoring tool bypass", logger.Event("MONITORING_TOOL_BYPASS"))
			return c.neutralResult(correlationID, result)
		}
		log.Info("detection started", logger.Event("DETECTION_START"))
		return c.neutralResult(correlationID, result)
	}

	log.Info("detection started", logger.Event("DETECTION_START"))

	outcome := c.runAnalyzers(ctx, correlationID, req, ip)

	verdict := c.score(correlationID, req, &outcome, reputation)

	if err := c.sessions.RecordSuspicion(ctx, ip, verdict.Score); err != nil {
		log.Warn("failed to record suspicion history", logger.Error(err))
	}

	result := detect.Result{
		IsSuspicious:   verdict.IsSuspicious,
		SuspicionScore: verdict.Score,
		Confidence:     verdict.Confidence,
		Reasons:        verdict.Reasons,
		Fingerprint:    verdict.Fingerprint,
		CorrelationID:  correlationID,
		Metadata: detect.Metadata{
			Timestamp:           time.Now(),
			TotalProcessingTime: outcome.fpDuration + outcome.behDuration + outcome.geoDuration,
			FingerprintTime:     outcome.fpDuration,
			BehaviorTime:        outcome.behDuration,
			GeoTime:             outcome.geoDuration,
			AnalyzerVersion:     analyzerVersion,
			FallbackReason:      outcome.fallbackReason,
			TimeoutOccurred:     outcome.timeoutOccurred,
			Geo:                 &outcome.geoLocation,
		},
	}

	c.recordAndPublish(result, outcome, log)
	return result
}

func (c *Coordinator) runAnalyzers(ctx context.Context, correlationID string, req detect.RequestView, ip string) analyzerOutcome {
	deadline := c.cfg.Resilience.TotalDeadlineMs
	if deadline <= 0 {
		deadline = 50 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	var outcome analyzerOutcome

	g.Go(func() error {
		start := time.Now()
		fp, timedOut := timeoutguard.Execute(gctx, c.cfg.Resilience.PerAnalyzerTimeoutMs.HTTP, func(context.Context) detect.HTTPFingerprint {
			return c.httpfp.Analyze(req)
		}, func() detect.HTTPFingerprint { return fallbackFingerprint(req) })
		outcome.fingerprint = fp
		outcome.fpDuration = time.Since(start)
		if timedOut {
			outcome.timeoutOccurred = true
			outcome.fallbackReason = "http fingerprint analyzer timed out"
			c.metrics.RecordError(detect.ErrTimeout.Error())
			c.publishError(correlationID, "fingerprint", outcome.fallbackReason)
		}
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		bm, timedOut, err := timeoutguard.ExecuteErr(gctx, c.cfg.Resilience.PerAnalyzerTimeoutMs.Behavior, func(ctx context.Context) (detect.BehaviorMetrics, error) {
			return c.behavior.Analyze(ctx, ip, req)
		}, fallbackBehavior)
		outcome.behaviorM = bm
		outcome.behDuration = time.Since(start)
		if timedOut {
			outcome.timeoutOccurred = true
			outcome.fallbackReason = "behavior analyzer timed out"
			c.metrics.RecordError(detect.ErrTimeout.Error())
			c.publishError(correlationID, "behavior", outcome.fallbackReason)
		} else if err != nil {
			outcome.fallbackReason = "behavior analyzer error: " + err.Error()
			c.metrics.RecordError(detect.ErrBehaviorAnalysis.Error())
			outcome.behaviorM = fallbackBehavior()
			c.publishError(correlationID, "behavior", outcome.fallbackReason)
		}
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		location, err := c.geo.Analyze(gctx, ip)
		outcome.geoLocation = location
		outcome.geoDuration = time.Since(start)
		if err != nil {
			c.metrics.RecordError(err.Error())
			outcome.fallbackReason = "geo analyzer error: " + err.Error()
			c.publishError(correlationID, "geo", outcome.fallbackReason)
		}
		return nil
	})

	_ = g.Wait()
	return outcome
}

// score runs the scoring engine, falling back to fallbackVerdict if it
// panics. Unlike the three analyzers, scoring.Engine.Score is pure CPU
// work with no I/O to time out on, so the only failure mode worth
// guarding against here is a panic — a nil map dereference or similar
// bug in a scoring rule must never stop the coordinator from returning
// a DetectionResult.
func (c *Coordinator) score(correlationID string, req detect.RequestView, outcome *analyzerOutcome, reputation *int) (verdict scoring.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("scoring engine panic: %v", r)
			outcome.fallbackReason = reason
			c.metrics.RecordError(detect.ErrScoringEngine.Error())
			c.publishError(correlationID, "scoring", reason)
			verdict = fallbackVerdict(req, c.cfg.Thresholds)
		}
	}()
	return c.scoring.Score(outcome.fingerprint, outcome.behaviorM, outcome.geoLocation, reputation)
}

func (c *Coordinator) publishError(correlationID, stage, message string) {
	c.bus.Publish(event.TopicErrorEvent, ErrorEvent{
		CorrelationID: correlationID,
		Stage:         stage,
		Message:       message,
		Timestamp:     time.Now(),
	})
}

func (c *Coordinator) neutralResult(correlationID string, wl whitelist.Result) detect.Result {
	return detect.Result{
		IsSuspicious:   false,
		SuspicionScore: 0,
		Confidence:     1.0,
		Reasons: []detect.Reason{{
			Category:    detect.CategoryReputation,
			Severity:    detect.SeverityLow,
			Description: "whitelist bypass (" + string(wl.BypassType) + ")",
			Score:       0,
		}},
		CorrelationID: correlationID,
		Metadata: detect.Metadata{
			Timestamp:       time.Now(),
			AnalyzerVersion: analyzerVersion,
		},
	}
}

func (c *Coordinator) recordAndPublish(result detect.Result, outcome analyzerOutcome, log *slog.Logger) {
	c.metrics.RecordDetection(metrics.DetectionRecord{
		Suspicious:          result.IsSuspicious,
		HighRisk:            result.SuspicionScore >= c.cfg.Thresholds.HighRisk,
		Country:             outcome.geoLocation.Country,
		Reasons:             result.Reasons,
		TotalDuration:       result.Metadata.TotalProcessingTime,
		FingerprintDuration: outcome.fpDuration,
		BehaviorDuration:    outcome.behDuration,
		GeoDuration:         outcome.geoDuration,
	})

	c.bus.Publish(event.TopicDetectionEvent, result)

	eventName := "LEGITIMATE_REQUEST_PROCESSED"
	if result.IsSuspicious {
		eventName = "SUSPICIOUS_REQUEST_DETECTED"
	}
	log.Info("detection completed",
		logger.Event(eventName),
		logger.Count("suspicionScore", result.SuspicionScore),
		logger.Duration(result.Metadata.TotalProcessingTime),
	)
}
