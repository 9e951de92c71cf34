package join

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAllOrdersResultsByIndex(t *testing.T) {
	got, err := All(context.Background(), 5, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return i * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40}, got)
}

func TestAllRunsConcurrently(t *testing.T) {
	const n = 4
	var wg sync.WaitGroup
	wg.Add(n)
	got, err := All(context.Background(), n, func(_ context.Context, i int) (int, error) {
		// Every call blocks until all have started.
		wg.Done()
		wg.Wait()
		return i, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestAllWaitsForEveryCallOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var finished atomic.Int32

	_, err := All(context.Background(), 3, func(ctx context.Context, i int) (string, error) {
		defer finished.Add(1)
		if i == 0 {
			return "", boom
		}
		time.Sleep(20 * time.Millisecond)
		if ctx.Err() != nil {
			t.Errorf("call %d observed cancellation", i)
		}
		return "ok", nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), finished.Load())
}

func TestAllZero(t *testing.T) {
	got, err := All(context.Background(), 0, func(context.Context, int) (int, error) {
		t.Fatal("fn must not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}
