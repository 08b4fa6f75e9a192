package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/samber/lo"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
)

// Fixed storage keys.
const (
	ProgressKey = "linkpuzzle:progress"
	StatsKey    = "linkpuzzle:stats"
	SessionKey  = "linkpuzzle:session"
)

// Store provides typed access to the records kept in a KeyValueStore. Read
// failures of any kind are reported as absent records.
type Store struct {
	kv KeyValueStore
}

var (
	_ ProgressStore = (*Store)(nil)
	_ StatsStore    = (*Store)(nil)
)

// NewStore wraps kv.
func NewStore(kv KeyValueStore) *Store {
	return &Store{kv: kv}
}

func (s *Store) loadJSON(ctx context.Context, key string, dst any) bool {
	log := logger.FromContext(ctx).WithPrefix("store").WithField("key", key)

	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Warn("read failed, treating as absent: %v", err)
		return false
	}
	if !found || len(raw) == 0 {
		log.Debug("no stored record")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("stored record is malformed, treating as absent: %v", err)
		return false
	}
	return true
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		logger.FromContext(ctx).WithPrefix("store").WithField("key", key).Error("write failed: %v", err)
		return err
	}
	return nil
}

// LoadProgress returns the stored progress or nil when none is usable.
func (s *Store) LoadProgress(ctx context.Context) *models.GameProgress {
	var p models.GameProgress
	if !s.loadJSON(ctx, ProgressKey, &p) {
		return nil
	}
	if p.History == nil {
		p.History = []models.GuessRecord{}
	}
	p.ExtraRevealed = NormalizeIndices(p.ExtraRevealed)
	return &p
}

// SaveProgress overwrites the stored progress.
func (s *Store) SaveProgress(ctx context.Context, progress models.GameProgress) error {
	if progress.History == nil {
		progress.History = []models.GuessRecord{}
	}
	progress.ExtraRevealed = NormalizeIndices(progress.ExtraRevealed)
	return s.saveJSON(ctx, ProgressKey, progress)
}

// ClearProgress removes the stored progress.
func (s *Store) ClearProgress(ctx context.Context) error {
	return s.kv.Delete(ctx, ProgressKey)
}

// LoadStats returns the stored statistics, empty statistics when none are
// usable. The distribution is padded to slots.
func (s *Store) LoadStats(ctx context.Context, slots int) models.UserStatistics {
	var st models.UserStatistics
	if !s.loadJSON(ctx, StatsKey, &st) {
		return models.NewUserStatistics(slots)
	}
	if len(st.GuessDistribution) < slots {
		logger.FromContext(ctx).WithPrefix("store").Debug("padding guess distribution from %d to %d slots", len(st.GuessDistribution), slots)
	}
	st.PadDistribution(slots)
	return st
}

// SaveStats overwrites the stored statistics.
func (s *Store) SaveStats(ctx context.Context, stats models.UserStatistics) error {
	if stats.GuessDistribution == nil {
		stats.GuessDistribution = []int{}
	}
	return s.saveJSON(ctx, StatsKey, stats)
}

// LoadSession returns the saved server session cookie, or "".
func (s *Store) LoadSession(ctx context.Context) string {
	var v string
	if !s.loadJSON(ctx, SessionKey, &v) {
		return ""
	}
	return v
}

// SaveSession stores the server session cookie.
func (s *Store) SaveSession(ctx context.Context, value string) error {
	return s.saveJSON(ctx, SessionKey, value)
}

// ClearSession forgets the server session cookie.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionKey)
}

// NormalizeIndices returns the non-negative members of idx, deduplicated and
// sorted. It never returns nil.
func NormalizeIndices(idx []int) []int {
	out := lo.Uniq(lo.Filter(idx, func(i int, _ int) bool { return i >= 0 }))
	sort.Ints(out)
	return out
}
