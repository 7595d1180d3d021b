package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler_FiresInDueOrder(t *testing.T) {
	s := NewManualScheduler()
	var fired []string

	s.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "late") })
	s.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })
	stopped := s.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "stopped") })

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 2, s.Pending())

	s.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"early"}, fired)

	s.Advance(time.Second)
	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_StopAfterFire(t *testing.T) {
	s := NewManualScheduler()
	timer := s.AfterFunc(time.Millisecond, func() {})
	s.Advance(time.Millisecond)
	assert.False(t, timer.Stop())
}
