package sentinel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaalai/sentinel/ai"
	"github.com/vaalai/sentinel/ai/mock"
	"github.com/vaalai/sentinel/crisis"
)

func newTestSentinel(t *testing.T) *Sentinel {
	t.Helper()

	s, err := New("testdata", WithServices(mock.NewMockEmbedder(), mock.NewMockReranker()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew(t *testing.T) {
	t.Run("cohere clients require an API key", func(t *testing.T) {
		_, err := New("testdata")
		assert.Error(t, err)
	})

	t.Run("configured cohere clients", func(t *testing.T) {
		s, err := New("testdata", WithAIConfig(ai.NewConfig(ai.WithAPIKey("test-key"))))
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})

	t.Run("injected services", func(t *testing.T) {
		s := newTestSentinel(t)
		assert.NotNil(t, s.Engine())
		assert.NotNil(t, s.SARS())
		assert.NotNil(t, s.Crisis())
	})
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("builds both knowledge bases", func(t *testing.T) {
		s := newTestSentinel(t)
		require.NoError(t, s.Initialize(ctx))

		assert.Equal(t, []string{"crisis", "sars"}, s.Engine().KnowledgeBases())
	})

	t.Run("missing data directory", func(t *testing.T) {
		s, err := New("testdata/nowhere", WithServices(mock.NewMockEmbedder(), mock.NewMockReranker()))
		require.NoError(t, err)
		defer s.Close()

		assert.Error(t, s.Initialize(ctx))
	})
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestSentinel(t)
	require.NoError(t, s.Initialize(ctx))

	t.Run("sars query finds learnership documents", func(t *testing.T) {
		resp, err := s.SARS().Query(ctx, "learnership allowances for NQF levels")
		require.NoError(t, err)
		require.NotZero(t, resp.TotalResults)
		assert.Contains(t, resp.Results[0].Text, "Learnership")
	})

	t.Run("crisis query finds sector impact", func(t *testing.T) {
		resp, err := s.Crisis().Query(ctx, "load-shedding impact on manufacturing sector")
		require.NoError(t, err)
		require.NotZero(t, resp.TotalResults)
		assert.Contains(t, resp.Results[0].Text, "manufacturing")
	})

	t.Run("risk assessment and impact lookup", func(t *testing.T) {
		assessment := s.Crisis().AssessRisk(crisis.GridMetrics{EAF: 58})
		assert.Equal(t, crisis.RiskCritical, assessment.OverallRisk)

		report, err := s.Crisis().BusinessImpact("mining", 4)
		require.NoError(t, err)
		assert.Equal(t, crisis.SeveritySevere, report.Severity)
	})
}
