package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(steps ...time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		if i > 0 && i-1 < len(steps) {
			t = t.Add(steps[i-1])
		}
		i++
		return t
	}
}

func TestMarkRecordsConsecutiveStages(t *testing.T) {
	p := NewProfiler(WithClock(fakeClock(10*time.Millisecond, 5*time.Millisecond)))

	s := p.Mark("fetch")
	assert.Equal(t, "fetch", s.Name)
	assert.Equal(t, 10*time.Millisecond, s.Duration)
	p.Mark("link")

	stages := p.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, 5*time.Millisecond, stages[1].Duration)
	assert.Equal(t, 15*time.Millisecond, p.Total())
	assert.Zero(t, stages[0].HeapDelta)

	stages[0].Name = "changed"
	assert.Equal(t, "fetch", p.Stages()[0].Name)
}

func TestLogValue(t *testing.T) {
	p := NewProfiler(WithClock(fakeClock(time.Second)))
	p.Mark("parse")

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("done", "stages", p)
	assert.Contains(t, buf.String(), "stages.parse=1s")
	assert.Contains(t, buf.String(), "stages.total=1s")
}

func TestWithMemStats(t *testing.T) {
	p := NewProfiler(WithMemStats(true))
	keep := make([]byte, 1<<20)
	s := p.Mark("alloc")
	assert.NotNil(t, p.memStats)
	assert.GreaterOrEqual(t, s.Duration, time.Duration(0))
	_ = keep[len(keep)-1]
}
