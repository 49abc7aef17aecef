package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
)

func testBundle(answer string) *models.Bundle {
	return &models.Bundle{
		TopicID:    models.TopicFamily,
		TopicTitle: "我的家庭",
		Content: models.TeachingContent{
			TeachingGoal:    "goal",
			ParentScript:    "script",
			SampleQuestions: []string{"q1", "q2"},
			ModelAnswer:     answer,
			Tips:            []string{"t1", "t2"},
		},
		Audio:  map[string]models.AudioClip{},
		Images: []models.ImageRef{},
	}
}

func newTestBundleCache(buildWait time.Duration) *BundleCache {
	return NewBundleCache(NewMemoryCache(16), nil, buildWait, 0, &metrics.Counters{}, nil)
}

func TestGetOrBuildSingleFlight(t *testing.T) {
	c := newTestBundleCache(time.Second)
	var builds atomic.Int64

	build := func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		time.Sleep(50 * time.Millisecond)
		return testBundle("a"), nil
	}

	var wg sync.WaitGroup
	results := make([]*models.Bundle, 32)
	errs := make([]error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrBuild(context.Background(), "fp-1", false, build)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), builds.Load())
	for i := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, "a", results[i].Content.ModelAnswer)
	}
}

func TestGetOrBuildReturnsCached(t *testing.T) {
	c := newTestBundleCache(time.Second)
	var builds atomic.Int64
	build := func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		return testBundle("a"), nil
	}

	_, err := c.GetOrBuild(context.Background(), "fp-1", false, build)
	require.NoError(t, err)
	_, err = c.GetOrBuild(context.Background(), "fp-1", false, build)
	require.NoError(t, err)

	assert.Equal(t, int64(1), builds.Load())
}

func TestFailedBuildStoresNothing(t *testing.T) {
	c := newTestBundleCache(time.Second)

	_, err := c.GetOrBuild(context.Background(), "fp-1", false, func(ctx context.Context) (*models.Bundle, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	_, ok := c.Get(context.Background(), "fp-1")
	assert.False(t, ok)

	// a later call retries the build
	b, err := c.GetOrBuild(context.Background(), "fp-1", false, func(ctx context.Context) (*models.Bundle, error) {
		return testBundle("retry"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "retry", b.Content.ModelAnswer)
}

func TestFailedForceBuildKeepsPriorEntry(t *testing.T) {
	c := newTestBundleCache(time.Second)

	_, err := c.GetOrBuild(context.Background(), "fp-1", false, func(ctx context.Context) (*models.Bundle, error) {
		return testBundle("original"), nil
	})
	require.NoError(t, err)

	_, err = c.GetOrBuild(context.Background(), "fp-1", true, func(ctx context.Context) (*models.Bundle, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	b, ok := c.Get(context.Background(), "fp-1")
	require.True(t, ok)
	assert.Equal(t, "original", b.Content.ModelAnswer)
}

func TestForceRebuildsAndOverwrites(t *testing.T) {
	c := newTestBundleCache(time.Second)
	var builds atomic.Int64

	_, err := c.GetOrBuild(context.Background(), "fp-1", false, func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		return testBundle("first"), nil
	})
	require.NoError(t, err)

	b, err := c.GetOrBuild(context.Background(), "fp-1", true, func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		return testBundle("second"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", b.Content.ModelAnswer)
	assert.Equal(t, int64(2), builds.Load())

	stored, ok := c.Get(context.Background(), "fp-1")
	require.True(t, ok)
	assert.Equal(t, "second", stored.Content.ModelAnswer)
}

func TestWaiterTimesOutAndBuildsItself(t *testing.T) {
	c := newTestBundleCache(20 * time.Millisecond)
	var builds atomic.Int64

	slow := func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		time.Sleep(200 * time.Millisecond)
		return testBundle("slow"), nil
	}
	fast := func(ctx context.Context) (*models.Bundle, error) {
		builds.Add(1)
		return testBundle("fast"), nil
	}

	go func() {
		_, _ = c.GetOrBuild(context.Background(), "fp-1", false, slow)
	}()
	time.Sleep(5 * time.Millisecond) // let the slow build claim the flight

	b, err := c.GetOrBuild(context.Background(), "fp-1", false, fast)
	require.NoError(t, err)
	assert.Equal(t, "fast", b.Content.ModelAnswer)
	assert.Equal(t, int64(2), builds.Load())
}

func TestDurableHitBackfillsLocal(t *testing.T) {
	durable := NewMemoryCache(16)
	c := NewBundleCache(NewMemoryCache(16), durable, time.Second, 0, &metrics.Counters{}, nil)

	require.NoError(t, durable.SetJSON(context.Background(), "bundle:fp-1", testBundle("durable"), 0))

	b, ok := c.Get(context.Background(), "fp-1")
	require.True(t, ok)
	assert.Equal(t, "durable", b.Content.ModelAnswer)

	// losing the backend must not lose an entry this process already read
	c.durable = nil
	b, ok = c.Get(context.Background(), "fp-1")
	require.True(t, ok)
	assert.Equal(t, "durable", b.Content.ModelAnswer)
}

func TestBundleSurvivesCacheSerialization(t *testing.T) {
	c := newTestBundleCache(time.Second)

	url := "https://cdn.example.com/a.mp3"
	dur := int64(4200)
	in := testBundle("roundtrip")
	in.Audio[models.DialectCantonese] = models.AudioClip{URL: &url, DurationMS: &dur, Source: models.AudioSourceGenerated}
	in.Audio[models.DialectMandarin] = models.AudioClip{Source: models.AudioSourceUnavailable}
	in.Images = []models.ImageRef{{ID: "img-1", URL: "https://cdn.example.com/i.png", Caption: "cap"}}
	in.Provenance = models.Provenance{
		TextSource:      models.TextSourceUpstream,
		TemplateVersion: 3,
		GeneratedAt:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		ElapsedMS:       812,
	}

	c.store(context.Background(), "fp-1", in)
	out, ok := c.Get(context.Background(), "fp-1")
	require.True(t, ok)
	assert.Equal(t, in, out)
}
