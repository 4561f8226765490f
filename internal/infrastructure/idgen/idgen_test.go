package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ billing.IDGenerator = (*Generator)(nil)

func TestNew_RejectsBadNode(t *testing.T) {
	_, err := New(1024)
	assert.Error(t, err)

	_, err = New(-1)
	assert.Error(t, err)
}

func TestGenerator_NextIDUniqueAcrossGoroutines(t *testing.T) {
	g, err := New(1)
	require.NoError(t, err)

	const workers, perWorker = 8, 500
	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- g.NextID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers*perWorker)
	for id := range ids {
		assert.Positive(t, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestGenerator_NewUID(t *testing.T) {
	g, err := New(0)
	require.NoError(t, err)

	uid := g.NewUID(billing.UIDPrefixOrder)
	assert.True(t, strings.HasPrefix(uid, "ord_"))
	assert.NotEqual(t, uid, g.NewUID(billing.UIDPrefixOrder))

	assert.Panics(t, func() { g.NewUID("Not-Valid") })
}
