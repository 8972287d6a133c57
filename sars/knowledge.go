package sars

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/engine"
)

// Name is the knowledge base registered by Initialize.
const Name = "sars"

// DefaultRelevanceThreshold is the minimum relevance score a hit needs to
// appear in query results.
const DefaultRelevanceThreshold = 0.5

// ErrNotInitialized is returned when a query or calculation runs before
// Initialize.
var ErrNotInitialized = errors.New("sars: knowledge base not initialized")

// KnowledgeBase is the SARS tax-regulation adapter. It owns the regulation
// data and delegates retrieval to a shared search engine.
type KnowledgeBase struct {
	engine     *engine.Engine
	dataDir    string
	section12H *Section12HData
	eti        *ETIData
	logger     *slog.Logger
}

// NewKnowledgeBase creates the adapter. Initialize must run before queries
// or calculations.
func NewKnowledgeBase(eng *engine.Engine, dataDir string) *KnowledgeBase {
	return &KnowledgeBase{
		engine:  eng,
		dataDir: dataDir,
		logger:  slog.Default().With("component", "sars-kb"),
	}
}

// Initialize loads the regulation files, flattens them into documents, and
// builds the "sars" knowledge base.
func (kb *KnowledgeBase) Initialize(ctx context.Context) error {
	section12H, err := loadSection12H(kb.dataDir)
	if err != nil {
		return fmt.Errorf("load section 12H data: %w", err)
	}
	eti, err := loadETI(kb.dataDir)
	if err != nil {
		return fmt.Errorf("load ETI data: %w", err)
	}

	docs := flatten(section12H, eti)
	summary, err := kb.engine.BuildIndex(ctx, Name, docs)
	if err != nil {
		return fmt.Errorf("build %q knowledge base: %w", Name, err)
	}

	kb.section12H = section12H
	kb.eti = eti

	kb.logger.Info("SARS knowledge base ready", "documents", summary.DocumentCount)
	return nil
}

// Query searches the regulation documents, keeping only hits at or above
// the relevance threshold and annotating each with a confidence tier.
func (kb *KnowledgeBase) Query(ctx context.Context, query string, opts ...engine.SearchOption) (*core.QueryResponse, error) {
	if kb.section12H == nil {
		return nil, ErrNotInitialized
	}

	results, err := kb.engine.Search(ctx, Name, query, opts...)
	if err != nil {
		return nil, err
	}

	kept := core.FilterByScore(results, DefaultRelevanceThreshold)
	return core.NewQueryResponse(query, kept), nil
}

// flatten renders the regulation data as retrieval documents, each prefixed
// with enough provenance to stand alone as a search hit.
func flatten(s *Section12HData, e *ETIData) []core.Document {
	var docs []core.Document

	var overview strings.Builder
	fmt.Fprintf(&overview, "%s: %s. Status: %s. ", s.Regulation, s.Description, s.Status)
	fmt.Fprintf(&overview, "Annual allowances: NQF 1-6 able-bodied R%.0f, disability R%.0f. ",
		s.Allowances.Annual.NQF1To6.AbleBodied, s.Allowances.Annual.NQF1To6.Disability)
	fmt.Fprintf(&overview, "NQF 7-10 able-bodied R%.0f, disability R%.0f.",
		s.Allowances.Annual.NQF7To10.AbleBodied, s.Allowances.Annual.NQF7To10.Disability)
	docs = append(docs, core.PlainText(overview.String()))

	for _, example := range s.CalculationExamples {
		docs = append(docs, core.PlainText(fmt.Sprintf(
			"Section 12H Example: %s. Total deduction: %s. Tax saving at 28%%: %s.",
			example.Scenario,
			example.stringField("total_deduction"),
			example.stringField("tax_saving_28_percent"))))
	}

	docs = append(docs, core.PlainText(fmt.Sprintf(
		"%s: %s. Effective from %s. First 12 months: Up to R1,500/month. "+
			"Second 12 months: Up to R750/month. Eligibility: Employees aged 18-29.",
		e.Regulation, e.Description, e.MonthlyAllowance2025.EffectiveFrom)))

	for _, example := range e.CalculationExamples {
		docs = append(docs, core.PlainText(fmt.Sprintf(
			"ETI Example: %s. Details: %s", example.Scenario, example.detail())))
	}

	return docs
}
