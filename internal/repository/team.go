package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

var _ service.TeamRepository = (*TeamRepository)(nil)

type TeamRepository struct {
	db *pgxpool.Pool
}

func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create регистрирует команду; занятый username дает models.ErrConflict
func (r *TeamRepository) Create(ctx context.Context, team *models.RescueTeam) error {
	query := `
		INSERT INTO rescue_teams (username, password_hash, team_name)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query, team.Username, team.PasswordHash, team.TeamName).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("username %q already registered: %w", team.Username, models.ErrConflict)
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByUsername(ctx context.Context, username string) (*models.RescueTeam, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RescueTeam, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *TeamRepository) getOne(ctx context.Context, where string, arg any) (*models.RescueTeam, error) {
	team := &models.RescueTeam{}
	query := `
		SELECT id, username, password_hash, team_name, created_at
		FROM rescue_teams
		WHERE ` + where + ";"
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&team.ID,
		&team.Username,
		&team.PasswordHash,
		&team.TeamName,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("team %v: %w", arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}
