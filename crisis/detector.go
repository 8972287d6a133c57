package crisis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/engine"
)

// Name is the knowledge base registered by Initialize.
const Name = "crisis"

// DefaultRelevanceThreshold is the minimum relevance score a hit needs to
// appear in query results.
const DefaultRelevanceThreshold = 0.5

// ErrNotInitialized is returned when a query or impact lookup runs before
// Initialize.
var ErrNotInitialized = errors.New("crisis: detector not initialized")

// Detector is the load-shedding crisis adapter. It owns the grid data and
// delegates retrieval to a shared search engine.
type Detector struct {
	engine  *engine.Engine
	dataDir string
	data    *LoadSheddingData
	logger  *slog.Logger
}

// NewDetector creates the adapter. Initialize must run before queries or
// impact lookups; AssessRisk works without it.
func NewDetector(eng *engine.Engine, dataDir string) *Detector {
	return &Detector{
		engine:  eng,
		dataDir: dataDir,
		logger:  slog.Default().With("component", "crisis-detector"),
	}
}

// Initialize loads the grid data, flattens it into documents, and builds
// the "crisis" knowledge base.
func (d *Detector) Initialize(ctx context.Context) error {
	data, err := loadLoadShedding(d.dataDir)
	if err != nil {
		return fmt.Errorf("load grid data: %w", err)
	}

	docs := flattenGrid(data)
	summary, err := d.engine.BuildIndex(ctx, Name, docs)
	if err != nil {
		return fmt.Errorf("build %q knowledge base: %w", Name, err)
	}

	d.data = data

	d.logger.Info("crisis knowledge base ready", "documents", summary.DocumentCount)
	return nil
}

// Query searches the grid intelligence documents, keeping only hits at or
// above the relevance threshold and annotating each with a confidence
// tier.
func (d *Detector) Query(ctx context.Context, query string, opts ...engine.SearchOption) (*core.QueryResponse, error) {
	if d.data == nil {
		return nil, ErrNotInitialized
	}

	results, err := d.engine.Search(ctx, Name, query, opts...)
	if err != nil {
		return nil, err
	}

	kept := core.FilterByScore(results, DefaultRelevanceThreshold)
	return core.NewQueryResponse(query, kept), nil
}

// flattenGrid renders the grid data as retrieval documents: one status
// document, one per predictive indicator, and one per business sector.
// Sector documents are emitted in sorted order so rebuilds are
// deterministic.
func flattenGrid(data *LoadSheddingData) []core.Document {
	var docs []core.Document

	docs = append(docs, core.PlainText(fmt.Sprintf(
		"Load-shedding 2024 status: %s. Consecutive days without load-shedding: %d. Last load-shedding: %s.",
		data.Performance2024.Status,
		data.Performance2024.ConsecutiveDaysNoCuts,
		data.Performance2024.LastLoadSheddingDate)))

	for _, ind := range data.PredictiveIndicators {
		docs = append(docs, core.PlainText(fmt.Sprintf(
			"Indicator: %s. Risk level: %s. Likely outcome: %s.",
			ind.Indicator, ind.RiskLevel, ind.LikelyOutcome)))
	}

	sectors := make([]string, 0, len(data.BusinessImpactMatrix))
	for sector := range data.BusinessImpactMatrix {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	for _, sector := range sectors {
		impact := data.BusinessImpactMatrix[sector]
		docs = append(docs, core.PlainText(fmt.Sprintf(
			"Load-shedding impact on %s: Stage 2 - %s. Stage 4 - %s. Mitigation: %s.",
			sector, impact.Stage2, impact.Stage4, impact.Mitigation)))
	}

	return docs
}
