package index

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		x, err := New(Config{Dimension: 8})
		require.NoError(t, err)
		assert.Equal(t, 8, x.Dimension())
		assert.Equal(t, MetricInnerProduct, x.Metric())
		assert.Equal(t, DefaultM, x.Config().M)
		assert.Equal(t, DefaultEfConstruction, x.Config().EfConstruction)
		assert.Equal(t, DefaultMaxElements, x.Config().MaxElements)
		assert.Equal(t, 0, x.Size())
	})

	t.Run("non-positive dimension", func(t *testing.T) {
		_, err := New(Config{Dimension: 0})
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = New(Config{Dimension: -3})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		_, err := New(Config{Dimension: 8, MaxElements: -1})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, err := New(Config{Dimension: 8, Metric: Metric(42)})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestBulkInsert(t *testing.T) {
	t.Run("assigns positional ids", func(t *testing.T) {
		x, err := New(Config{Dimension: 2})
		require.NoError(t, err)

		require.NoError(t, x.BulkInsert([][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}))
		assert.Equal(t, 3, x.Size())

		results, err := x.Search([]float32{1, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].ID)
	})

	t.Run("dimension mismatch rejects whole batch", func(t *testing.T) {
		x, err := New(Config{Dimension: 3})
		require.NoError(t, err)

		err = x.BulkInsert([][]float32{{1, 0, 0}, {1, 0}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 0, x.Size())
	})

	t.Run("capacity exceeded rejects whole batch", func(t *testing.T) {
		x, err := New(Config{Dimension: 2, MaxElements: 2})
		require.NoError(t, err)

		err = x.BulkInsert([][]float32{{1, 0}, {0, 1}, {1, 1}})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 0, x.Size())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		x, err := New(Config{Dimension: 2})
		require.NoError(t, err)
		require.NoError(t, x.BulkInsert(nil))
		assert.Equal(t, 0, x.Size())
	})
}

func TestSearchValidation(t *testing.T) {
	x, err := New(Config{Dimension: 2})
	require.NoError(t, err)

	t.Run("empty index", func(t *testing.T) {
		_, err := x.Search([]float32{1, 0}, 3)
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})

	require.NoError(t, x.BulkInsert([][]float32{{1, 0}, {0, 1}}))

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := x.Search([]float32{1, 0, 0}, 3)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("k of zero returns empty", func(t *testing.T) {
		results, err := x.Search([]float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("k larger than size is capped", func(t *testing.T) {
		results, err := x.Search([]float32{1, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestSearchMetricOrdering(t *testing.T) {
	t.Run("inner product descends by dot", func(t *testing.T) {
		x, err := New(Config{Dimension: 2, Metric: MetricInnerProduct})
		require.NoError(t, err)
		require.NoError(t, x.BulkInsert([][]float32{{1, 0}, {0.5, 0}, {0, 1}}))

		results, err := x.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, []int{0, 1, 2}, []int{results[0].ID, results[1].ID, results[2].ID})
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
		assert.InDelta(t, 0.5, results[1].Score, 1e-6)
		assert.InDelta(t, 0.0, results[2].Score, 1e-6)
	})

	t.Run("cosine ignores magnitude", func(t *testing.T) {
		x, err := New(Config{Dimension: 2, Metric: MetricCosine})
		require.NoError(t, err)
		require.NoError(t, x.BulkInsert([][]float32{{5, 0}, {2, 2}, {0, 9}}))

		results, err := x.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, 0, results[0].ID)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
		assert.Equal(t, 1, results[1].ID)
		assert.InDelta(t, 0.7071, results[1].Score, 1e-3)
		assert.Equal(t, 2, results[2].ID)
		assert.InDelta(t, 0.0, results[2].Score, 1e-6)
	})

	t.Run("l2 ascends by distance", func(t *testing.T) {
		x, err := New(Config{Dimension: 2, Metric: MetricL2})
		require.NoError(t, err)
		require.NoError(t, x.BulkInsert([][]float32{{1, 0}, {2, 0}, {5, 0}}))

		results, err := x.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, []int{0, 1, 2}, []int{results[0].ID, results[1].ID, results[2].ID})
		assert.InDelta(t, 0.0, results[0].Score, 1e-6)
		assert.InDelta(t, 1.0, results[1].Score, 1e-6)
		assert.InDelta(t, 4.0, results[2].Score, 1e-6)
	})
}

func TestSearchIdempotence(t *testing.T) {
	x := buildRandomIndex(t, 120, 8, MetricInnerProduct)

	query := randomVector(rand.New(rand.NewSource(99)), 8)
	first, err := x.Search(query, 10)
	require.NoError(t, err)
	second, err := x.Search(query, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearchAgainstBruteForce(t *testing.T) {
	const (
		n   = 300
		dim = 16
	)
	rng := rand.New(rand.NewSource(7))
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = randomVector(rng, dim)
	}

	x, err := New(Config{Dimension: dim, Metric: MetricInnerProduct})
	require.NoError(t, err)
	require.NoError(t, x.BulkInsert(vectors))

	t.Run("recovers inserted vectors", func(t *testing.T) {
		for _, id := range []int{0, 17, 150, 299} {
			results, err := x.Search(vectors[id], 1)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, id, results[0].ID)
		}
	})

	t.Run("top-10 overlaps exhaustive scan", func(t *testing.T) {
		for q := 0; q < 5; q++ {
			query := randomVector(rng, dim)

			exact := make(map[int]bool)
			for _, r := range bruteForceTopK(vectors, query, 10) {
				exact[r] = true
			}

			results, err := x.Search(query, 10)
			require.NoError(t, err)
			require.Len(t, results, 10)

			overlap := 0
			for _, r := range results {
				if exact[r.ID] {
					overlap++
				}
			}
			assert.GreaterOrEqual(t, overlap, 8, "query %d", q)
		}
	})
}

func buildRandomIndex(t *testing.T, n, dim int, metric Metric) *Index {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = randomVector(rng, dim)
	}

	x, err := New(Config{Dimension: dim, Metric: metric})
	require.NoError(t, err)
	require.NoError(t, x.BulkInsert(vectors))
	return x
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}

func bruteForceTopK(vectors [][]float32, query []float32, k int) []int {
	type scored struct {
		id  int
		dot float32
	}
	all := make([]scored, len(vectors))
	for i, v := range vectors {
		all[i] = scored{id: i, dot: DotProduct(query, v)}
	}
	for i := 0; i < k; i++ {
		best := i
		for j := i + 1; j < len(all); j++ {
			if all[j].dot > all[best].dot {
				best = j
			}
		}
		all[i], all[best] = all[best], all[i]
	}
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = all[i].id
	}
	return ids
}
