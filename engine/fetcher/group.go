package fetcher

import (
	"errors"
	"maps"
	"sync"
	"sync/atomic"
)

// Group is the join barrier of one FetchGroup call.
type Group interface {
	// Wait blocks until every member has completed or been skipped.
	//
	// Returns:
	//   - map[string]Result: results keyed by resource id, nil on failure
	//   - error: the first member failure
	Wait() (map[string]Result, error)

	// Len returns the number of members.
	Len() int
}

type groupImpl struct {
	wg     sync.WaitGroup
	n      int
	failed atomic.Bool

	mu      sync.Mutex
	results map[string]Result
	err     error
}

var _ Group = &groupImpl{}

func newGroup(n int) *groupImpl {
	return &groupImpl{n: n, results: make(map[string]Result, n)}
}

func (g *groupImpl) record(r Result, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		if g.err == nil && !errors.Is(err, errSkipped) {
			g.err = err
			g.failed.Store(true)
		}
		return
	}
	if g.err != nil {
		return
	}
	g.results[r.Resource.ID] = r
}

func (g *groupImpl) Wait() (map[string]Result, error) {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return maps.Clone(g.results), nil
}

func (g *groupImpl) Len() int {
	return g.n
}
