package geoscore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/yanqian/geoscore/pkg/errors"
	"github.com/yanqian/geoscore/pkg/metrics"
	"github.com/yanqian/geoscore/pkg/util"
)

// Service exposes location scoring capabilities.
type Service interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (Analysis, error)
	Score(ctx context.Context, in ScoreInput) (ScoreResult, error)
	Lookup(ctx context.Context, address string) (LocationRecord, error)
	LookupKey(ctx context.Context, key string) (LocationRecord, error)
	BusinessTypes() []BusinessType
}

const storeWriteTimeout = 10 * time.Second

type service struct {
	cfg    Config
	cache  *LocationCache
	queue  JobQueue
	logger *slog.Logger
	flight singleflight.Group
	now    func() time.Time
	newID  func() string
}

// NewService wires up the scoring domain. queue may be nil when snapshot
// archiving is disabled.
func NewService(cfg Config, store Store, queue JobQueue, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		cache:  NewLocationCache(store, logger),
		queue:  queue,
		logger: logger.With("component", "geoscore.service"),
		now:    util.NowUTC,
		newID:  uuid.NewString,
	}
}

func (s *service) Analyze(ctx context.Context, req AnalyzeRequest) (Analysis, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return Analysis{}, apperrors.Wrap(apperrors.CodeInvalidInput, "address cannot be empty", nil)
	}
	if !ValidCoordinate(req.Coordinates) {
		return Analysis{}, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates out of range", nil)
	}
	key := NormalizeKey(address)
	if key == "" {
		return Analysis{}, apperrors.Wrap(apperrors.CodeInvalidInput, "address must contain letters or digits", nil)
	}
	usage := countInputs(req.Places, req.Transit)

	if !req.Refresh {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			return Analysis{}, apperrors.Wrap(apperrors.CodeStore, "location cache lookup failed", err)
		}
		if ok {
			s.logger.Info("location cache hit", "key", key)
			return s.analysis(key, SourceCache, true, cached, nil), nil
		}
		s.logger.Info("location cache miss", "key", key)
	}

	// Seeded runs never write, so they skip the per-key flight.
	if req.Seeded {
		record := s.buildRecord(address, req)
		return s.analysis(key, SourceEngine, false, record, &usage), nil
	}

	// The flight is shared, so one caller going away must not fail the rest.
	v, err, shared := s.flight.Do(key, func() (any, error) {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
		defer cancel()
		return s.scoreAndStore(writeCtx, key, address, req)
	})
	if err != nil {
		return Analysis{}, err
	}
	if shared {
		s.logger.Debug("analysis shared with concurrent request", "key", key)
	}
	record := v.(LocationRecord)
	return s.analysis(key, SourceEngine, true, record, &usage), nil
}

func (s *service) scoreAndStore(ctx context.Context, key, address string, req AnalyzeRequest) (LocationRecord, error) {
	record := s.buildRecord(address, req)
	stored, err := s.cache.Put(ctx, key, record)
	if err != nil {
		return LocationRecord{}, apperrors.Wrap(apperrors.CodeStore, "failed to store location analysis", err)
	}
	if stored {
		s.logger.Info("location analysis stored", "key", key, "run_id", record.RunID, "score", record.Score)
		s.enqueueArchive(ctx, key, record.RunID)
	}
	return record, nil
}

func (s *service) buildRecord(address string, req AnalyzeRequest) LocationRecord {
	in := ScoreInput{
		Coordinates:  req.Coordinates,
		BusinessType: req.BusinessType,
		Places:       req.Places,
		Transit:      req.Transit,
	}
	result := s.evaluate(in)
	places := req.Places
	if places == nil {
		places = []PointRecord{}
	}
	return LocationRecord{
		RunID:            s.newID(),
		Location:         address,
		Coordinates:      req.Coordinates,
		Score:            result.Score,
		Factors:          result.Factors,
		LastUpdated:      s.now(),
		NearbyPlaces:     places,
		DetailedAnalysis: result.DetailedAnalysis,
		Seeded:           req.Seeded,
	}
}

func (s *service) evaluate(in ScoreInput) ScoreResult {
	tags, known := s.cfg.CompetitorTags(in.BusinessType)
	if !known && strings.TrimSpace(in.BusinessType) != "" {
		s.logger.Warn("unknown business type, using generic competitors", "business_type", in.BusinessType)
	}
	result := Evaluate(in, tags)
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return result
	}
	s.logger.Debug("location scored",
		"lat", in.Coordinates.Lat,
		"lng", in.Coordinates.Lng,
		"foot_traffic_zone", ClassifyFootTraffic(in.Coordinates, in.Places).Zone,
		"safety_zone", ClassifySafety(in.Coordinates, in.Places).Zone,
		"accessibility_zone", ClassifyAccessibility(len(in.Transit)).Zone,
		"competitors", result.DetailedAnalysis.CompetitorAnalysis.Total,
		"score", result.Score,
	)
	return result
}

func (s *service) enqueueArchive(ctx context.Context, key, runID string) {
	if s.queue == nil {
		return
	}
	payload := map[string]any{"key": key, "runId": runID}
	if err := s.queue.Enqueue(ctx, JobArchiveSnapshot, payload); err != nil {
		s.logger.Warn("snapshot archive enqueue failed", "key", key, "error", err)
	}
}

func (s *service) analysis(key string, source Source, stored bool, record LocationRecord, usage *metrics.InputUsage) Analysis {
	if usage != nil && usage.IsZero() {
		usage = nil
	}
	return Analysis{
		Key:          key,
		Source:       source,
		Stored:       stored,
		Grade:        GradeFor(record.Score),
		RadiusMeters: s.cfg.radius(),
		Record:       record,
		Inputs:       usage,
	}
}

func (s *service) Score(_ context.Context, in ScoreInput) (ScoreResult, error) {
	if !ValidCoordinate(in.Coordinates) {
		return ScoreResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates out of range", nil)
	}
	return s.evaluate(in), nil
}

func (s *service) Lookup(ctx context.Context, address string) (LocationRecord, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return LocationRecord{}, apperrors.Wrap(apperrors.CodeInvalidInput, "address cannot be empty", nil)
	}
	return s.LookupKey(ctx, NormalizeKey(trimmed))
}

func (s *service) LookupKey(ctx context.Context, key string) (LocationRecord, error) {
	if strings.TrimSpace(key) == "" {
		return LocationRecord{}, apperrors.Wrap(apperrors.CodeInvalidInput, "key cannot be empty", nil)
	}
	record, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return LocationRecord{}, apperrors.Wrap(apperrors.CodeStore, "location cache lookup failed", err)
	}
	if !ok {
		return LocationRecord{}, apperrors.Wrap(apperrors.CodeNotFound, "no analysis stored for this location", nil)
	}
	return record, nil
}

func (s *service) BusinessTypes() []BusinessType {
	return s.cfg.Table()
}

func countInputs(places, transit []PointRecord) metrics.InputUsage {
	usage := metrics.InputUsage{Places: len(places), TransitStops: len(transit)}
	for _, p := range places {
		if _, ok := p.Location(); !ok {
			usage.Unlocated++
		}
	}
	return usage
}
