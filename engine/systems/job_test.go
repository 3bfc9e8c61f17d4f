package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemErrors(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsJobs(t *testing.T) {
	js, err := NewJobSystem(3, 4)
	require.NoError(t, err)

	var (
		mutex     sync.Mutex
		results   []int
		failures  int32
		completed int32
		wg        sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, js.Submit(metadata.JobTask{
			InputParams: i,
			OnStart: func(p interface{}) (interface{}, error) {
				n := p.(int)
				if n%5 == 0 {
					return nil, errors.New("multiple of five")
				}
				return n * n, nil
			},
			OnComplete: func(r interface{}) {
				mutex.Lock()
				results = append(results, r.(int))
				mutex.Unlock()
			},
			OnFailure: func(p interface{}, err error) {
				atomic.AddInt32(&failures, 1)
			},
			OnCompletionCallback: func() {
				atomic.AddInt32(&completed, 1)
				wg.Done()
			},
		}))
	}
	wg.Wait()

	assert.Len(t, results, 8)
	assert.Equal(t, int32(2), atomic.LoadInt32(&failures))
	assert.Equal(t, int32(10), atomic.LoadInt32(&completed))

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	err = js.Submit(metadata.JobTask{OnStart: func(interface{}) (interface{}, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
}

func TestJobSystemRejectsJobWithoutEntryPoint(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	assert.Error(t, js.Submit(metadata.JobTask{}))
}

func TestJobSystemAddWorkNonBlocking(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	done := make(chan interface{}, 1)
	js.AddWorkNonBlocking(metadata.JobTask{
		InputParams: "quad",
		OnStart: func(p interface{}) (interface{}, error) {
			return p, nil
		},
		OnComplete: func(r interface{}) {
			done <- r
		},
	})
	assert.Equal(t, "quad", <-done)
}
