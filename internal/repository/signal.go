package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

var _ service.SignalRepository = (*SignalRepository)(nil)

const signalColumns = `
	id,
	latitude,
	longitude,
	description,
	image_count,
	danger_level,
	ai_assessment,
	status,
	assigned_team_id,
	rescuer_latitude,
	rescuer_longitude,
	rescuer_team_id,
	rescuer_reported_at,
	created_at,
	updated_at`

// querier - общее у пула и транзакции
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type SignalRepository struct {
	db *pgxpool.Pool
}

func NewSignalRepository(db *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{db: db}
}

// Create сохраняет сигнал, его картинки и событие создания в одной транзакции
func (r *SignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO signals (latitude, longitude, description, image_count, danger_level, ai_assessment, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, created_at, updated_at;
	`
	err = tx.QueryRow(ctx, query,
		signal.Latitude,
		signal.Longitude,
		signal.Description,
		len(signal.Images),
		string(signal.DangerLevel),
		signal.AIAssessment,
	).Scan(&signal.ID, &signal.CreatedAt, &signal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}

	batch := &pgx.Batch{}
	for i, img := range signal.Images {
		batch.Queue(`INSERT INTO signal_images (signal_id, position, data) VALUES ($1, $2, $3);`, signal.ID, i, img)
	}
	batch.Queue(`
		INSERT INTO signal_events (signal_id, to_status, created_at)
		VALUES ($1, 'pending', $2);`, signal.ID, signal.CreatedAt)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store signal images and history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit signal: %w", err)
	}

	signal.Status = models.StatusPending
	signal.ImageCount = len(signal.Images)
	signal.AssignedTeamID = nil
	signal.RescuerLocation = nil
	return nil
}

// GetByID возвращает сигнал вместе с картинками
func (r *SignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	signal, err := r.get(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT data FROM signal_images WHERE signal_id = $1 ORDER BY position;`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal images: %w", err)
	}
	images, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to scan signal images: %w", err)
	}
	if len(images) > 0 {
		signal.Images = images
	}
	return signal, nil
}

// GetState читает только строку signals, картинки не загружаются
func (r *SignalRepository) GetState(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	return r.get(ctx, r.db, id)
}

// List возвращает сигналы без картинок, новые первыми
func (r *SignalRepository) List(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DangerLevel != nil {
		args = append(args, string(*filter.DangerLevel))
		conds = append(conds, fmt.Sprintf("danger_level = $%d", len(args)))
	}

	query := "SELECT" + signalColumns + "\nFROM signals"
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY created_at DESC, id DESC;"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	signals := make([]*models.Signal, 0)
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return signals, nil
}

// Transition выполняет compare-and-set статуса и пишет событие истории в той же транзакции
func (r *SignalRepository) Transition(ctx context.Context, id uuid.UUID, t models.Transition) (*models.Signal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE signals SET
			status = $3::text,
			assigned_team_id = CASE WHEN $3::text = 'in_progress' THEN $4::uuid ELSE assigned_team_id END,
			updated_at = GREATEST(NOW(), created_at)
		WHERE id = $1
			AND status = $2::text
			AND (NOT $5::boolean OR assigned_team_id = $4::uuid)
		RETURNING` + signalColumns + ";"

	signal, err := scanSignal(tx.QueryRow(ctx, query, id, string(t.From), string(t.To), t.TeamID, t.RequireAssignee))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.mismatch(ctx, tx, id)
		}
		return nil, fmt.Errorf("failed to update signal status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO signal_events (signal_id, from_status, to_status, team_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		id, string(t.From), string(t.To), t.TeamID, t.Notes, signal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save signal event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit signal status: %w", err)
	}
	return signal, nil
}

// UpdateRescuerLocation перезаписывает позицию, только если команда держит сигнал в работе
func (r *SignalRepository) UpdateRescuerLocation(ctx context.Context, id, teamID uuid.UUID, pos models.Position) (*models.Signal, error) {
	query := `
		UPDATE signals SET
			rescuer_latitude = $3,
			rescuer_longitude = $4,
			rescuer_team_id = $2,
			rescuer_reported_at = GREATEST(NOW(), created_at),
			updated_at = GREATEST(NOW(), created_at)
		WHERE id = $1
			AND status = 'in_progress'
			AND assigned_team_id = $2
		RETURNING` + signalColumns + ";"

	signal, err := scanSignal(r.db.QueryRow(ctx, query, id, teamID, pos.Latitude, pos.Longitude))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.mismatch(ctx, r.db, id)
		}
		return nil, fmt.Errorf("failed to update rescuer location: %w", err)
	}
	return signal, nil
}

// History возвращает события сигнала в порядке записи
func (r *SignalRepository) History(ctx context.Context, id uuid.UUID) ([]*models.SignalEvent, error) {
	query := `
		SELECT id, signal_id, from_status, to_status, team_id, notes, created_at
		FROM signal_events
		WHERE signal_id = $1
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal history: %w", err)
	}
	defer rows.Close()

	events := make([]*models.SignalEvent, 0)
	for rows.Next() {
		var (
			event    models.SignalEvent
			from     *string
			to       string
			notes    *string
			teamID   *uuid.UUID
			signalID uuid.UUID
		)
		if err := rows.Scan(&event.ID, &signalID, &from, &to, &teamID, &notes, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal event: %w", err)
		}
		event.SignalID = signalID
		event.ToStatus = models.SignalStatus(to)
		if from != nil {
			status := models.SignalStatus(*from)
			event.FromStatus = &status
		}
		event.TeamID = teamID
		event.Notes = notes
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error history iteration: %w", err)
	}

	// у каждого сигнала есть событие создания, пустая история значит нет сигнала
	if len(events) == 0 {
		return nil, fmt.Errorf("signal with id %s: %w", id, models.ErrNotFound)
	}
	return events, nil
}

// Stats считает сигналы одним запросом
func (r *SignalRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE danger_level = 'red'),
			COUNT(*) FILTER (WHERE danger_level = 'yellow'),
			COUNT(*) FILTER (WHERE danger_level = 'green'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM signals;
	`
	stats := &models.DashboardStats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Red,
		&stats.Yellow,
		&stats.Green,
		&stats.Pending,
		&stats.InProgress,
		&stats.Completed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal stats: %w", err)
	}
	return stats, nil
}

func (r *SignalRepository) get(ctx context.Context, q querier, id uuid.UUID) (*models.Signal, error) {
	query := "SELECT" + signalColumns + "\nFROM signals\nWHERE id = $1;"
	signal, err := scanSignal(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("signal with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get signal by id: %w", err)
	}
	return signal, nil
}

// mismatch отличает отсутствующий сигнал от невыполненного условия UPDATE
func (r *SignalRepository) mismatch(ctx context.Context, q querier, id uuid.UUID) (*models.Signal, error) {
	current, err := r.get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return current, models.ErrStateMismatch
}

func scanSignal(row pgx.Row) (*models.Signal, error) {
	var (
		s              models.Signal
		dangerLevel    string
		status         string
		rescuerLat     *float64
		rescuerLon     *float64
		rescuerTeamID  *uuid.UUID
		rescuerAt      *time.Time
		assignedTeamID *uuid.UUID
	)
	err := row.Scan(
		&s.ID,
		&s.Latitude,
		&s.Longitude,
		&s.Description,
		&s.ImageCount,
		&dangerLevel,
		&s.AIAssessment,
		&status,
		&assignedTeamID,
		&rescuerLat,
		&rescuerLon,
		&rescuerTeamID,
		&rescuerAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.DangerLevel = models.DangerLevel(dangerLevel)
	s.Status = models.SignalStatus(status)
	s.AssignedTeamID = assignedTeamID
	if rescuerLat != nil && rescuerLon != nil && rescuerTeamID != nil && rescuerAt != nil {
		s.RescuerLocation = &models.RescuerLocation{
			Latitude:   *rescuerLat,
			Longitude:  *rescuerLon,
			TeamID:     *rescuerTeamID,
			ReportedAt: *rescuerAt,
		}
	}
	return &s, nil
}
