package dashboard

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViewLoadAndRefetch(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/api/distribution/age": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"bucket":"all","n":` + r.URL.Query().Get("buckets") + `}]`))
		},
	})
	var mu sync.Mutex
	var slots []string
	view := NewView(context.Background(), newTestService(t, api), DefaultParams(), WithNotify(func(slot string) {
		mu.Lock()
		defer mu.Unlock()
		slots = append(slots, slot)
	}))
	defer view.Close()

	require.Nil(t, view.Snapshot())
	require.NoError(t, view.Load())
	view.Wait()
	dash := view.Snapshot()
	require.NotNil(t, dash)
	require.Equal(t, 9, dash.AgeHistogram[0].Count)

	require.NoError(t, view.SetAgeBuckets(15))
	view.Wait()
	require.Equal(t, 15, view.Snapshot().AgeHistogram[0].Count)
	require.Equal(t, 15, view.Params().AgeBuckets)
	require.Equal(t, 9, dash.AgeHistogram[0].Count, "earlier snapshot is immutable")

	mu.Lock()
	require.Equal(t, []string{"*", DatasetAgeHistogram}, slots)
	mu.Unlock()
}

func TestViewRejectsInvalidParameter(t *testing.T) {
	view := NewView(context.Background(), newTestService(t, newFakeAPI(t, nil)), DefaultParams())
	defer view.Close()
	require.Error(t, view.SetScatterLimit(0))
	require.Error(t, view.SetIncomeBuckets(101))
	require.Equal(t, 1000, view.Params().ScatterLimit)
}

func TestViewDropsSupersededRefetch(t *testing.T) {
	release := make(chan struct{})
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/api/scatter/age_income": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") == "10" {
				<-release
			}
			_, _ = w.Write([]byte(`[{"age":30,"monthly_income":1000,"left_flag":0,"note":"` + r.URL.Query().Get("limit") + `"}]`))
		},
	})
	view := NewView(context.Background(), newTestService(t, api), DefaultParams())
	defer view.Close()
	require.NoError(t, view.Load())
	view.Wait()

	require.NoError(t, view.SetScatterLimit(10))
	require.NoError(t, view.SetScatterLimit(20))
	require.Eventually(t, func() bool {
		return view.Snapshot().Params.ScatterLimit == 20
	}, time.Second, 5*time.Millisecond)
	close(release)
	view.Wait()

	dash := view.Snapshot()
	require.Equal(t, 20, dash.Params.ScatterLimit)
	require.Equal(t, 1, dash.Scatter.Total())
}

func TestViewCloseDiscardsLateResults(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/api/attrition/summary": func(w http.ResponseWriter, r *http.Request) {
			once.Do(func() { close(started) })
			<-r.Context().Done()
		},
	})
	view := NewView(context.Background(), newTestService(t, api), DefaultParams())
	require.NoError(t, view.Load())
	<-started
	view.Close()

	require.Nil(t, view.Snapshot())
	require.ErrorIs(t, view.Load(), ErrViewClosed)
	require.ErrorIs(t, view.SetAgeBuckets(3), ErrViewClosed)
}

func TestViewParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	view := NewView(ctx, newTestService(t, newFakeAPI(t, nil)), DefaultParams())
	defer view.Close()
	cancel()
	require.NoError(t, view.Load())
	view.Wait()
	require.Nil(t, view.Snapshot())
}
