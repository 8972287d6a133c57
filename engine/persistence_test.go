package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaalai/sentinel/index"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	basePath := filepath.Join(t.TempDir(), "animals_index")

	eng, _, _ := newTestEngine(t)
	_, err := eng.BuildIndex(ctx, "animals", animalDocs())
	require.NoError(t, err)

	wantResults, err := eng.Search(ctx, "animals", "fastest land mammal")
	require.NoError(t, err)

	require.NoError(t, eng.SaveIndex("animals", basePath))

	assert.FileExists(t, basePath+IndexSuffix)
	assert.FileExists(t, basePath+TextsSuffix)

	// A fresh engine restores the knowledge base from disk alone.
	fresh, _, _ := newTestEngine(t)
	require.NoError(t, fresh.LoadIndex("animals", basePath))

	count, err := fresh.DocumentCount("animals")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	gotResults, err := fresh.Search(ctx, "animals", "fastest land mammal")
	require.NoError(t, err)
	assert.Equal(t, wantResults, gotResults)
}

func TestSaveUnknownKnowledgeBase(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	err := eng.SaveIndex("missing", filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, ErrKnowledgeBaseNotFound)
}

func TestLoadValidation(t *testing.T) {
	ctx := context.Background()
	basePath := filepath.Join(t.TempDir(), "kb")

	eng, _, _ := newTestEngine(t)
	_, err := eng.BuildIndex(ctx, "kb", animalDocs())
	require.NoError(t, err)
	require.NoError(t, eng.SaveIndex("kb", basePath))

	t.Run("missing index file", func(t *testing.T) {
		fresh, _, _ := newTestEngine(t)
		err := fresh.LoadIndex("kb", filepath.Join(t.TempDir(), "nowhere"))
		assert.Error(t, err)
	})

	t.Run("missing texts file", func(t *testing.T) {
		lonely := filepath.Join(t.TempDir(), "lonely")
		blob, err := os.ReadFile(basePath + IndexSuffix)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(lonely+IndexSuffix, blob, 0o644))

		fresh, _, _ := newTestEngine(t)
		assert.Error(t, fresh.LoadIndex("kb", lonely))
	})

	t.Run("corrupt index blob", func(t *testing.T) {
		corrupt := filepath.Join(t.TempDir(), "corrupt")
		blob, err := os.ReadFile(basePath + IndexSuffix)
		require.NoError(t, err)
		blob[len(blob)-1] ^= 0xFF
		require.NoError(t, os.WriteFile(corrupt+IndexSuffix, blob, 0o644))

		texts, err := os.ReadFile(basePath + TextsSuffix)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(corrupt+TextsSuffix, texts, 0o644))

		fresh, _, _ := newTestEngine(t)
		err = fresh.LoadIndex("kb", corrupt)
		assert.ErrorIs(t, err, index.ErrCorruptSnapshot)
	})

	t.Run("texts count mismatch", func(t *testing.T) {
		mismatched := filepath.Join(t.TempDir(), "mismatched")
		blob, err := os.ReadFile(basePath + IndexSuffix)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(mismatched+IndexSuffix, blob, 0o644))

		texts, err := json.Marshal([]string{"only", "two"})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(mismatched+TextsSuffix, texts, 0o644))

		fresh, _, _ := newTestEngine(t)
		assert.ErrorContains(t, fresh.LoadIndex("kb", mismatched), "mismatch")
	})

	t.Run("dimension expectation", func(t *testing.T) {
		fresh, _, _ := newTestEngine(t)
		assert.Error(t, fresh.LoadIndex("kb", basePath, WithExpectedDimension(1536)))
		assert.NoError(t, fresh.LoadIndex("kb", basePath, WithExpectedDimension(256)))
	})

	t.Run("metric expectation", func(t *testing.T) {
		fresh, _, _ := newTestEngine(t)
		assert.Error(t, fresh.LoadIndex("kb", basePath, WithExpectedMetric(index.MetricL2)))
		assert.NoError(t, fresh.LoadIndex("kb", basePath, WithExpectedMetric(index.MetricInnerProduct)))
	})
}

func TestLoadReplacesExisting(t *testing.T) {
	ctx := context.Background()
	basePath := filepath.Join(t.TempDir(), "kb")

	eng, _, _ := newTestEngine(t)
	_, err := eng.BuildIndex(ctx, "kb", animalDocs())
	require.NoError(t, err)
	require.NoError(t, eng.SaveIndex("kb", basePath))

	// Shrink the in-memory knowledge base, then restore from disk.
	_, err = eng.BuildIndex(ctx, "kb", animalDocs()[:2])
	require.NoError(t, err)
	require.NoError(t, eng.LoadIndex("kb", basePath))

	count, err := eng.DocumentCount("kb")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
