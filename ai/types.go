package ai

// RerankResult is one scored document from a rerank call.
type RerankResult struct {
	// Index is the document's position in the rerank input.
	Index int

	// RelevanceScore is the cross-encoder score, higher is more relevant.
	RelevanceScore float64
}

// InputType tags an embedding request with the side of an asymmetric model
// it targets.
type InputType string

const (
	// InputTypeDocument marks document-side embedding during index builds.
	InputTypeDocument InputType = "search_document"

	// InputTypeQuery marks query-side embedding at search time.
	InputTypeQuery InputType = "search_query"
)

// TruncateEnd is the truncation policy sent with embedding requests:
// over-long inputs are cut from the end rather than rejected.
const TruncateEnd = "END"
