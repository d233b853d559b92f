package models

// Chunk is a bounded slice of a document's normalized text together with
// its provenance. Chunks are immutable once the ingestion pipeline has
// produced them; a "document" exists only as the set of chunks sharing a
// Source.
type Chunk struct {
	Text        string `json:"text"`
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	// Metadata carries format-specific detail from the extractor
	// (pages, paragraphs, lines). The provenance fields above are
	// reserved keys and never appear here.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScoredChunk is a chunk as returned from the vector index, ranked by the
// active retrieval strategy. Embedding is populated so rerankers (MMR) can
// measure redundancy without another round-trip to the store.
type ScoredChunk struct {
	Chunk     Chunk
	Score     float64
	Embedding []float32
}

// Citation names one distinct source document backing an answer, with a
// format-specific detail string such as "PDF, 12 pages".
type Citation struct {
	Source string `json:"source"`
	Detail string `json:"detail,omitempty"`
}

// QAResult is the outcome of one question: the chosen answer text and the
// cited sources in first-occurrence order. It is transient; chat history is
// the caller's concern.
type QAResult struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
}
