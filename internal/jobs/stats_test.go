package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh must run with a deadline")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.DashboardStats{Total: 3, Pending: 2, InProgress: 1}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestNewStatsRefresher_InvalidSchedule(t *testing.T) {
	_, err := NewStatsRefresher(&countingSource{}, "every now and then", quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stats refresh schedule")
}

func TestStatsRefresher_RunOnce(t *testing.T) {
	source := &countingSource{}
	r, err := NewStatsRefresher(source, "@every 1h", quietLogger())
	require.NoError(t, err)

	r.RunOnce(context.Background())

	assert.Equal(t, int32(1), source.calls.Load())
}

func TestStatsRefresher_RunOnceErrorIsLogged(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&out)

	source := &countingSource{err: errors.New("database unavailable")}
	r, err := NewStatsRefresher(source, "@every 1h", logger)
	require.NoError(t, err)

	r.RunOnce(context.Background())

	assert.Equal(t, int32(1), source.calls.Load())
	assert.Contains(t, out.String(), "Failed to refresh signal stats")
}

func TestStatsRefresher_StartRunsOnSchedule(t *testing.T) {
	source := &countingSource{}
	r, err := NewStatsRefresher(source, "@every 1s", quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	assert.Eventually(t, func() bool {
		return source.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}
