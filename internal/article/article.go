package article

// SchemaVersion tags every EnrichedRecord with the output schema revision.
const SchemaVersion = "2.0"

// Document is a raw article as submitted by a caller. It is immutable once
// handed to the pipeline.
type Document struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`

	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Author  string `json:"author,omitempty"`

	PublicationDate string `json:"publication_date,omitempty"`
	RevisionDate    string `json:"revision_date,omitempty"`
	EmbargoDate     string `json:"embargo_date,omitempty"`

	Categories     []string `json:"categories,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	MediaAssetURLs []string `json:"media_asset_urls,omitempty"`

	GeographicalData   map[string]string `json:"geographical_data,omitempty"`
	AdditionalMetadata map[string]any    `json:"additional_metadata,omitempty"`
}

// Entity is a labeled span over a specific text buffer. Start and End are
// byte offsets; a span is only meaningful against the exact buffer it was
// extracted from.
type Entity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start_char"`
	End   int    `json:"end_char"`
}

// EnrichedRecord is the pipeline output for one document. Offsets in
// Entities are valid against CleanedText. TemporalMetadata is an ISO date or
// null when no date could be resolved.
type EnrichedRecord struct {
	DocumentID string `json:"document_id"`
	Version    string `json:"version"`

	OriginalText string `json:"original_text"`
	CleanedText  string `json:"cleaned_text"`

	CleanedTitle   string `json:"cleaned_title,omitempty"`
	CleanedExcerpt string `json:"cleaned_excerpt,omitempty"`
	CleanedAuthor  string `json:"cleaned_author,omitempty"`

	CleanedPublicationDate string `json:"cleaned_publication_date,omitempty"`
	CleanedRevisionDate    string `json:"cleaned_revision_date,omitempty"`
	CleanedEmbargoDate     string `json:"cleaned_embargo_date,omitempty"`

	CleanedCategories     []string `json:"cleaned_categories,omitempty"`
	CleanedTags           []string `json:"cleaned_tags,omitempty"`
	CleanedMediaAssetURLs []string `json:"cleaned_media_asset_urls,omitempty"`

	CleanedGeographicalData map[string]string `json:"cleaned_geographical_data,omitempty"`

	TemporalMetadata *string  `json:"temporal_metadata"`
	Entities         []Entity `json:"entities"`

	CleanedAdditionalMetadata map[string]any `json:"cleaned_additional_metadata"`

	ProcessedAt string `json:"processed_at"`
}
