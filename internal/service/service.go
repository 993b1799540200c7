// Package service orchestrates one excuse request: resolve the caller's
// location, gather weather, time, news, and transit context, then generate
// the excuse text.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/relam-bot/Useless-Project-2.0/internal/excuse"
	"github.com/relam-bot/Useless-Project-2.0/internal/geoip"
	"github.com/relam-bot/Useless-Project-2.0/internal/models"
	"github.com/relam-bot/Useless-Project-2.0/internal/news"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/timectx"
	"github.com/relam-bot/Useless-Project-2.0/internal/traffic"
	"github.com/relam-bot/Useless-Project-2.0/internal/transit"
	"github.com/relam-bot/Useless-Project-2.0/internal/weather"
)

// NoLocationError is the hard stop for a failed geolocation lookup. It
// carries the address that was looked up so the HTTP layer can name it in
// the error message.
type NoLocationError struct {
	IP  string
	Err error
}

func (e *NoLocationError) Error() string {
	return fmt.Sprintf("resolve location for %s: %v", e.IP, e.Err)
}

func (e *NoLocationError) Unwrap() error { return e.Err }

// ErrWeatherUnavailable is the hard stop for a failed weather fetch.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// ExcuseService wires the fetchers together. The failure tolerance is
// deliberately uneven: location and weather failures abort the request,
// missing news shrinks to an empty list, and a failed generation falls back
// to a canned sentence.
type ExcuseService struct {
	resolver  geoip.Resolver
	weather   weather.Fetcher
	news      news.Fetcher
	transit   transit.StatusProvider
	generator excuse.Generator

	timeLocation    *time.Location
	localSubstitute string
}

// NewExcuseService creates the orchestrator with its fetcher dependencies.
func NewExcuseService(
	resolver geoip.Resolver,
	weatherFetcher weather.Fetcher,
	newsFetcher news.Fetcher,
	transitProvider transit.StatusProvider,
	generator excuse.Generator,
	timeLocation *time.Location,
	localSubstitute string,
) *ExcuseService {
	return &ExcuseService{
		resolver:        resolver,
		weather:         weatherFetcher,
		news:            newsFetcher,
		transit:         transitProvider,
		generator:       generator,
		timeLocation:    timeLocation,
		localSubstitute: localSubstitute,
	}
}

// GenerateExcuse runs the straight-line sequence for one request. The
// returned result carries every intermediate value plus the excuse text; the
// endpoint doubles as its own diagnostic trace.
func (s *ExcuseService) GenerateExcuse(ctx context.Context, role, clientIP string) (models.ExcuseResult, error) {
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)

	ipUsed := geoip.EffectiveIP(clientIP, s.localSubstitute)

	loc, err := s.resolver.Resolve(ctx, ipUsed)
	if err != nil {
		traffic.RecordError()
		return models.ExcuseResult{}, &NoLocationError{IP: ipUsed, Err: err}
	}
	if logger != nil {
		logger.Debug("location resolved",
			zap.String("ip", ipUsed),
			zap.String("city", loc.City),
			zap.String("country", loc.Country))
	}

	snapshot, err := s.weather.Current(ctx, loc.Lat, loc.Lon)
	if err != nil {
		traffic.RecordError()
		return models.ExcuseResult{}, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	if logger != nil {
		logger.Debug("weather fetched", zap.String("condition", snapshot.Condition))
	}

	timeInfo := timectx.Current(s.timeLocation)

	headlines, err := s.news.TopHeadlines(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("news unavailable, continuing without headlines", zap.Error(err))
		}
		headlines = nil
	}
	if headlines == nil {
		headlines = []models.NewsItem{}
	}
	observability.NewsHeadlinesPerExcuse.Observe(float64(len(headlines)))

	transitStatus := s.transit.Current(ctx, loc)

	prompt := excuse.BuildPrompt(loc, snapshot, timeInfo, headlines, transitStatus, role)
	fellBack := false
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		fellBack = true
		text = excuse.FallbackExcuse
		observability.ExcusesGeneratedTotal.WithLabelValues(observability.OutcomeFallback).Inc()
		if logger != nil {
			logger.Warn("generation failed, serving fallback", zap.Error(err))
		}
	} else {
		observability.ExcusesGeneratedTotal.WithLabelValues(observability.OutcomeGenerated).Inc()
	}

	traffic.RecordSuccess()
	if logger != nil {
		logger.Debug("excuse assembled",
			zap.String("ip", ipUsed),
			zap.Int("headlines", len(headlines)),
			zap.Bool("fallback", fellBack),
			zap.Duration("duration", time.Since(start)))
	}

	return models.ExcuseResult{
		IPUsed:                ipUsed,
		Location:              loc,
		Weather:               snapshot,
		TimeInfo:              timeInfo,
		NewsHeadlines:         headlines,
		PublicTransportStatus: transitStatus,
		Excuse:                text,
	}, nil
}
