package repository

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

var (
	_ service.SignalRepository = (*MemorySignalRepository)(nil)
	_ service.TeamRepository   = (*MemoryTeamRepository)(nil)
)

// memoryEntry - сигнал со своей блокировкой: записи в один сигнал последовательны,
// в разные сигналы идут параллельно
type memoryEntry struct {
	mu     sync.Mutex
	signal *models.Signal
	events []*models.SignalEvent
}

// MemorySignalRepository хранит сигналы в памяти процесса (STORAGE_BACKEND=memory)
type MemorySignalRepository struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]*memoryEntry
	eventSeq atomic.Int64
	now      func() time.Time
}

func NewMemorySignalRepository() *MemorySignalRepository {
	return &MemorySignalRepository{
		entries: make(map[uuid.UUID]*memoryEntry),
		now:     time.Now,
	}
}

// Create присваивает ID, время и статус pending
func (r *MemorySignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := r.now().UTC()
	signal.ID = uuid.New()
	signal.Status = models.StatusPending
	signal.AssignedTeamID = nil
	signal.RescuerLocation = nil
	signal.ImageCount = len(signal.Images)
	signal.CreatedAt = now
	signal.UpdatedAt = now

	entry := &memoryEntry{signal: signal.Clone()}
	entry.events = append(entry.events, &models.SignalEvent{
		ID:        r.eventSeq.Add(1),
		SignalID:  signal.ID,
		ToStatus:  models.StatusPending,
		CreatedAt: now,
	})

	r.mu.Lock()
	r.entries[signal.ID] = entry
	r.mu.Unlock()
	return nil
}

func (r *MemorySignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.signal.Clone(), nil
}

func (r *MemorySignalRepository) GetState(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return withoutImages(entry.signal), nil
}

// List возвращает копии без картинок, новые первыми
func (r *MemorySignalRepository) List(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	signals := make([]*models.Signal, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if filter.Matches(e.signal) {
			signals = append(signals, withoutImages(e.signal))
		}
		e.mu.Unlock()
	}

	slices.SortFunc(signals, func(a, b *models.Signal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})
	return signals, nil
}

// Transition - compare-and-set статуса под блокировкой сигнала
func (r *MemorySignalRepository) Transition(ctx context.Context, id uuid.UUID, t models.Transition) (*models.Signal, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !t.Allows(entry.signal) {
		return entry.signal.Clone(), models.ErrStateMismatch
	}

	// изменения применяются к копии и публикуются целиком
	next := entry.signal.Clone()
	if t.To == models.StatusInProgress {
		teamID := t.TeamID
		next.AssignedTeamID = &teamID
	}
	next.Status = t.To
	next.UpdatedAt = r.touch(next.CreatedAt)

	from := t.From
	teamID := t.TeamID
	entry.events = append(entry.events, &models.SignalEvent{
		ID:         r.eventSeq.Add(1),
		SignalID:   id,
		FromStatus: &from,
		ToStatus:   t.To,
		TeamID:     &teamID,
		Notes:      cloneString(t.Notes),
		CreatedAt:  next.UpdatedAt,
	})
	entry.signal = next
	return withoutImages(next), nil
}

// UpdateRescuerLocation перезаписывает позицию, если команда держит сигнал в работе
func (r *MemorySignalRepository) UpdateRescuerLocation(ctx context.Context, id, teamID uuid.UUID, pos models.Position) (*models.Signal, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.signal.Status != models.StatusInProgress || !entry.signal.IsAssignedTo(teamID) {
		return entry.signal.Clone(), models.ErrStateMismatch
	}

	next := entry.signal.Clone()
	next.UpdatedAt = r.touch(next.CreatedAt)
	next.RescuerLocation = &models.RescuerLocation{
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
		TeamID:     teamID,
		ReportedAt: next.UpdatedAt,
	}
	entry.signal = next
	return withoutImages(next), nil
}

func (r *MemorySignalRepository) History(ctx context.Context, id uuid.UUID) ([]*models.SignalEvent, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	events := make([]*models.SignalEvent, len(entry.events))
	for i, e := range entry.events {
		c := *e
		events[i] = &c
	}
	return events, nil
}

func (r *MemorySignalRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	signals, err := r.List(ctx, models.SignalFilter{})
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{}
	for _, s := range signals {
		stats.Add(s)
	}
	return stats, nil
}

func (r *MemorySignalRepository) entry(ctx context.Context, id uuid.UUID) (*memoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("signal with id %s: %w", id, models.ErrNotFound)
	}
	return entry, nil
}

// touch не дает updated_at уйти раньше created_at при переводе часов
func (r *MemorySignalRepository) touch(createdAt time.Time) time.Time {
	now := r.now().UTC()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// withoutImages - копия для списков и ответов на изменения, как у postgres-хранилища
func withoutImages(s *models.Signal) *models.Signal {
	c := s.Clone()
	c.Images = nil
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// MemoryTeamRepository хранит команды в памяти процесса
type MemoryTeamRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*models.RescueTeam
	byUsername map[string]*models.RescueTeam
}

func NewMemoryTeamRepository() *MemoryTeamRepository {
	return &MemoryTeamRepository{
		byID:       make(map[uuid.UUID]*models.RescueTeam),
		byUsername: make(map[string]*models.RescueTeam),
	}
}

func (r *MemoryTeamRepository) Create(ctx context.Context, team *models.RescueTeam) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[team.Username]; exists {
		return fmt.Errorf("username %q already registered: %w", team.Username, models.ErrConflict)
	}
	team.ID = uuid.New()
	team.CreatedAt = time.Now().UTC()

	stored := *team
	r.byID[team.ID] = &stored
	r.byUsername[team.Username] = &stored
	return nil
}

func (r *MemoryTeamRepository) GetByUsername(ctx context.Context, username string) (*models.RescueTeam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("team %q: %w", username, models.ErrNotFound)
	}
	c := *team
	return &c, nil
}

func (r *MemoryTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RescueTeam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("team with id %s: %w", id, models.ErrNotFound)
	}
	c := *team
	return &c, nil
}
