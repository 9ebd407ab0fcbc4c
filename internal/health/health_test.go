package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckBasic(t *testing.T) {
	assert.Equal(t, StatusHealthy, NewHealthChecker(pinger{}, nil, nil).CheckBasic().Status)

	down := NewHealthChecker(pinger{err: errors.New("refused")}, nil, nil).CheckBasic()
	assert.Equal(t, StatusUnhealthy, down.Status)
	assert.Equal(t, StatusUnhealthy, down.Database.Status)
}

func TestCheckDetailed_Degraded(t *testing.T) {
	status := NewHealthChecker(pinger{}, pinger{}, func() bool { return false }).CheckDetailed()

	assert.Equal(t, StatusDegraded, status.Status)
	require.NotNil(t, status.Redis)
	assert.Equal(t, StatusUnhealthy, status.Redis.Status)
	assert.Equal(t, StatusHealthy, status.Storage.Status)
	require.NotNil(t, status.Host)
	assert.Positive(t, status.Host.Goroutines)
}

func TestCheckDetailed_OptionalBackendsDisabled(t *testing.T) {
	status := NewHealthChecker(pinger{}, nil, nil).CheckDetailed()

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusDisabled, status.Redis.Status)
	assert.Equal(t, StatusDisabled, status.Storage.Status)
}
