package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlessWGPUContextUnpinsThread(t *testing.T) {
	var locks, unlocks int
	lock, unlock := lockOSThread, unlockOSThread
	lockOSThread = func() { locks++ }
	unlockOSThread = func() { unlocks++ }
	t.Cleanup(func() {
		lockOSThread, unlockOSThread = lock, unlock
	})

	// A machine without a fallback adapter fails here; the thread must be released either way.
	ctx, err := newHeadlessWGPUContext("test", true)
	if err == nil {
		ctx.Release()
	}
	assert.Equal(t, 1, locks)
	assert.Equal(t, locks, unlocks)
}
