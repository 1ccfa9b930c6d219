package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeStale(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("no deadline")
	}
	return 2, p.err
}

func TestJanitor_RunOnce(t *testing.T) {
	p := &countingPurger{}
	NewJanitor(p, nil).RunOnce()
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestJanitor_RunOnceError(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	j := NewJanitor(p, nil)
	assert.NotPanics(t, j.RunOnce)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestJanitor_BadSchedule(t *testing.T) {
	j := NewJanitor(&countingPurger{}, nil)
	require.Error(t, j.Start("not a schedule"))
}

func TestJanitor_Schedule(t *testing.T) {
	p := &countingPurger{}
	j := NewJanitor(p, nil)
	require.NoError(t, j.Start("@every 1s"))
	defer j.Stop()

	assert.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
