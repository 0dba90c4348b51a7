package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"fueltracker/backend/libs/kvstore"
	"fueltracker/backend/services/pumps-service/internal/models"
)

var (
	ErrAdminOnly = errors.New("store: administrator access required")
	ErrNotOwner  = errors.New("store: pump belongs to another administrator")
	ErrNotFound  = errors.New("store: pump not found")

	errCorruptBlob = errors.New("store: decode pumps")
)

const defaultNearestLimit = 5

// PumpDistance is a pump with its great-circle distance from a reference point.
type PumpDistance struct {
	Pump       models.PumpRecord `json:"pump"`
	DistanceKm float64           `json:"distanceKm"`
}

// PumpStore owns the canonical pump collection. Mutations persist the whole collection to
// the blob store and then reload it.
type PumpStore struct {
	kv     kvstore.Store
	logger *zap.Logger

	mu        sync.RWMutex
	pumps     []models.PumpRecord
	listeners []func()

	// writeMu serialises read-modify-write cycles against the blob store.
	writeMu sync.Mutex
	now     func() time.Time
	newID   func() string
}

// NewPumpStore returns an empty store; call Load to populate it.
func NewPumpStore(kv kvstore.Store, logger *zap.Logger) *PumpStore {
	return &PumpStore{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Load replaces the canonical collection with the persisted one. A missing or unreadable
// blob yields an empty collection.
func (s *PumpStore) Load(ctx context.Context) []models.PumpRecord {
	pumps, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("pump collection unavailable, starting empty", zap.Error(err))
		pumps = nil
	}

	s.mu.Lock()
	s.pumps = pumps
	s.mu.Unlock()

	return s.All()
}

// All returns a copy of the canonical collection.
func (s *PumpStore) All() []models.PumpRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PumpRecord(nil), s.pumps...)
}

// Filter returns the records matching criteria in canonical order.
func (s *PumpStore) Filter(criteria models.FilterCriteria) []models.PumpRecord {
	criteria = criteria.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.PumpRecord, 0, len(s.pumps))
	for _, p := range s.pumps {
		if criteria.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// Get looks a pump up by id.
func (s *PumpStore) Get(id string) (models.PumpRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.pumps, id); i >= 0 {
		return s.pumps[i], nil
	}
	return models.PumpRecord{}, ErrNotFound
}

// OwnedBy lists the pumps created by an administrator.
func (s *PumpStore) OwnedBy(ownerID string) []models.PumpRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.PumpRecord, 0)
	for _, p := range s.pumps {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result
}

// Districts returns distinct districts in first-seen order.
func (s *PumpStore) Districts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, p := range s.pumps {
		if _, ok := seen[p.District]; ok {
			continue
		}
		seen[p.District] = struct{}{}
		result = append(result, p.District)
	}
	return result
}

// Nearest returns up to limit pumps ordered by distance from (lat, lng).
func (s *PumpStore) Nearest(lat, lng float64, limit int) []PumpDistance {
	if limit <= 0 {
		limit = defaultNearestLimit
	}
	origin := orb.Point{lng, lat}

	s.mu.RLock()
	result := make([]PumpDistance, 0, len(s.pumps))
	for _, p := range s.pumps {
		meters := geo.DistanceHaversine(origin, orb.Point{p.Lng, p.Lat})
		result = append(result, PumpDistance{Pump: p, DistanceKm: meters / 1000})
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Subscribe registers fn to run after every successful mutation and reload.
func (s *PumpStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Upsert replaces the record with the same id or appends a new one. Only administrators may
// write, and only their own pumps.
func (s *PumpStore) Upsert(ctx context.Context, actor models.Actor, rec models.PumpRecord) (models.PumpRecord, error) {
	return s.save(ctx, actor, rec, false)
}

// Update replaces an existing record and fails with ErrNotFound when rec.ID is not stored.
func (s *PumpStore) Update(ctx context.Context, actor models.Actor, rec models.PumpRecord) (models.PumpRecord, error) {
	return s.save(ctx, actor, rec, true)
}

func (s *PumpStore) save(ctx context.Context, actor models.Actor, rec models.PumpRecord, mustExist bool) (models.PumpRecord, error) {
	if !actor.IsAdmin {
		return models.PumpRecord{}, ErrAdminOnly
	}
	if err := rec.Validate(); err != nil {
		return models.PumpRecord{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pumps, err := s.fetchForWrite(ctx)
	if err != nil {
		return models.PumpRecord{}, err
	}

	if rec.ID == "" && !mustExist {
		rec.ID = s.newID()
	}
	idx := indexOf(pumps, rec.ID)
	if idx < 0 && mustExist {
		return models.PumpRecord{}, ErrNotFound
	}
	if idx >= 0 && pumps[idx].OwnerID != actor.UserID {
		return models.PumpRecord{}, ErrNotOwner
	}

	rec.OwnerID = actor.UserID
	rec.LastUpdated = s.now().UTC()
	if idx >= 0 {
		pumps[idx] = rec
	} else {
		pumps = append(pumps, rec)
	}

	if err := s.persist(ctx, pumps); err != nil {
		return models.PumpRecord{}, err
	}
	s.logger.Info("pump saved", zap.String("pump_id", rec.ID), zap.String("owner_id", actor.UserID), zap.Bool("created", idx < 0))
	s.reload(ctx)
	return rec, nil
}

// Remove deletes a pump owned by the actor. Nothing is persisted on refusal.
func (s *PumpStore) Remove(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrAdminOnly
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pumps, err := s.fetchForWrite(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(pumps, id)
	if idx < 0 {
		return ErrNotFound
	}
	if pumps[idx].OwnerID != actor.UserID {
		return ErrNotOwner
	}

	pumps = append(pumps[:idx], pumps[idx+1:]...)
	if err := s.persist(ctx, pumps); err != nil {
		return err
	}
	s.logger.Info("pump removed", zap.String("pump_id", id), zap.String("owner_id", actor.UserID))
	s.reload(ctx)
	return nil
}

func (s *PumpStore) fetch(ctx context.Context) ([]models.PumpRecord, error) {
	raw, ok, err := s.kv.Get(ctx, kvstore.KeyPumps)
	if err != nil {
		return nil, fmt.Errorf("store: read pumps: %w", err)
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var pumps []models.PumpRecord
	if err := json.Unmarshal(raw, &pumps); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptBlob, err)
	}
	return pumps, nil
}

// fetchForWrite treats an undecodable blob like a missing one, matching Load. Backend read
// failures are still returned.
func (s *PumpStore) fetchForWrite(ctx context.Context) ([]models.PumpRecord, error) {
	pumps, err := s.fetch(ctx)
	if errors.Is(err, errCorruptBlob) {
		s.logger.Warn("pump collection unreadable, overwriting with fresh collection", zap.Error(err))
		return nil, nil
	}
	return pumps, err
}

func (s *PumpStore) persist(ctx context.Context, pumps []models.PumpRecord) error {
	if pumps == nil {
		pumps = []models.PumpRecord{}
	}
	data, err := json.Marshal(pumps)
	if err != nil {
		return fmt.Errorf("store: encode pumps: %w", err)
	}
	if err := s.kv.Set(ctx, kvstore.KeyPumps, data); err != nil {
		return fmt.Errorf("store: write pumps: %w", err)
	}
	return nil
}

func (s *PumpStore) reload(ctx context.Context) {
	s.Load(ctx)

	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func indexOf(pumps []models.PumpRecord, id string) int {
	for i, p := range pumps {
		if p.ID == id {
			return i
		}
	}
	return -1
}
