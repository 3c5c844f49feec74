//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/pkg/postgres"
)

// getTestDB подключается к базе с примененными миграциями
func getTestDB(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL is not set")
	}
	db, err := postgres.NewPostgresDB(context.Background(), url)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func createTestTeam(t *testing.T, repo *TeamRepository) *models.RescueTeam {
	team := &models.RescueTeam{
		Username:     "team-" + uuid.NewString(),
		PasswordHash: "hash",
		TeamName:     "Integration Team",
	}
	require.NoError(t, repo.Create(context.Background(), team))
	return team
}

func TestPostgresSignalRepository_Lifecycle(t *testing.T) {
	db := getTestDB(t)
	signals := NewSignalRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()
	teamA, teamB := createTestTeam(t, teams), createTestTeam(t, teams)

	signal := newSignal("flood, trapped on roof", models.DangerYellow)
	signal.Images = [][]byte{{1, 2, 3}, {4}}
	require.NoError(t, signals.Create(ctx, signal))

	got, err := signals.GetByID(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, [][]byte{{1, 2, 3}, {4}}, got.Images)
	assert.Equal(t, 2, got.ImageCount)

	claimed, err := signals.Transition(ctx, signal.ID, claimTransition(teamA.ID))
	require.NoError(t, err)
	assert.True(t, claimed.IsAssignedTo(teamA.ID))
	assert.False(t, claimed.UpdatedAt.Before(claimed.CreatedAt))

	current, err := signals.Transition(ctx, signal.ID, claimTransition(teamB.ID))
	assert.ErrorIs(t, err, models.ErrStateMismatch)
	assert.True(t, current.IsAssignedTo(teamA.ID))

	_, err = signals.UpdateRescuerLocation(ctx, signal.ID, teamB.ID, models.Position{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, models.ErrStateMismatch)

	located, err := signals.UpdateRescuerLocation(ctx, signal.ID, teamA.ID, models.Position{Latitude: 21.03, Longitude: 105.85})
	require.NoError(t, err)
	require.NotNil(t, located.RescuerLocation)
	assert.Equal(t, 21.03, located.RescuerLocation.Latitude)

	state, err := signals.GetState(ctx, signal.ID)
	require.NoError(t, err)
	assert.Nil(t, state.Images)
	assert.Equal(t, 2, state.ImageCount)
	require.NotNil(t, state.RescuerLocation)
	assert.Equal(t, teamA.ID, state.RescuerLocation.TeamID)

	notes := "all evacuated"
	done := completeTransition(teamA.ID)
	done.Notes = &notes
	_, err = signals.Transition(ctx, signal.ID, done)
	require.NoError(t, err)

	_, err = signals.UpdateRescuerLocation(ctx, signal.ID, teamA.ID, models.Position{Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, models.ErrStateMismatch)

	history, err := signals.History(ctx, signal.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, notes, *history[2].Notes)

	_, err = signals.Transition(ctx, uuid.New(), claimTransition(teamA.ID))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresSignalRepository_ConcurrentClaim(t *testing.T) {
	db := getTestDB(t)
	signals := NewSignalRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()

	signal := newSignal("help", models.DangerRed)
	require.NoError(t, signals.Create(ctx, signal))

	const contenders = 10
	teamIDs := make([]uuid.UUID, contenders)
	for i := range teamIDs {
		teamIDs[i] = createTestTeam(t, teams).ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for _, id := range teamIDs {
		wg.Add(1)
		go func(teamID uuid.UUID) {
			defer wg.Done()
			_, err := signals.Transition(ctx, signal.ID, claimTransition(teamID))
			if err != nil && !errors.Is(err, models.ErrStateMismatch) {
				t.Errorf("unexpected error: %v", err)
			}
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestPostgresTeamRepository_DuplicateUsername(t *testing.T) {
	db := getTestDB(t)
	teams := NewTeamRepository(db)
	team := createTestTeam(t, teams)

	err := teams.Create(context.Background(), &models.RescueTeam{Username: team.Username, PasswordHash: "x", TeamName: "dup"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = teams.GetByUsername(context.Background(), "ghost-"+uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
