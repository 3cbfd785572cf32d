package doclai

import "fmt"

// TranslationStyle controls the tone and formality of translations.
type TranslationStyle string

const (
	// StyleFormal uses formal, professional language suitable for official documents.
	StyleFormal TranslationStyle = "formal"
	// StyleNeutral uses a neutral, professional tone suitable for general content.
	StyleNeutral TranslationStyle = "neutral"
	// StyleCasual uses casual, conversational language.
	StyleCasual TranslationStyle = "casual"
	// StyleMarketing uses persuasive, engaging language for promotional content.
	StyleMarketing TranslationStyle = "marketing"
	// StyleTechnical uses precise, technical language for documentation.
	StyleTechnical TranslationStyle = "technical"
)

var styleDescriptions = map[TranslationStyle]string{
	StyleFormal:    "Use a formal, professional register suitable for official communication.",
	StyleNeutral:   "Use a neutral, professional tone suitable for general content.",
	StyleCasual:    "Use a casual, conversational tone, as a friend would write.",
	StyleMarketing: "Use persuasive, engaging language suitable for promotional content.",
	StyleTechnical: "Use precise, technical language; keep terminology consistent.",
}

// GetStyleDescription returns the prompt wording for a style (neutral when unknown).
func GetStyleDescription(style TranslationStyle) string {
	if d, ok := styleDescriptions[style]; ok {
		return d
	}
	return styleDescriptions[StyleNeutral]
}

// ContextTag is a coarse classification of a leaf derived from its name.
// It only steers style hints for the translator.
type ContextTag string

const (
	ContextTitle       ContextTag = "title"
	ContextSubject     ContextTag = "subject"
	ContextDescription ContextTag = "description"
	ContextContent     ContextTag = "content"
	ContextMessage     ContextTag = "message"
	ContextExplanation ContextTag = "explanation"
	ContextText        ContextTag = "text"
)

// MarkupMap maps a markup token index to the tag text it replaced.
type MarkupMap map[int]string

// Leaf is a translatable string found in a document.
type Leaf struct {
	Address Address    // Where the string lives in the source tree
	Source  string     // Text sent for translation (markup replaced by tokens)
	Context ContextTag // Style hint derived from the leaf name
	Markup  MarkupMap  // Protected tags, nil when the string carried none
}

// Chunk is a contiguous run of leaves translated by one external call.
type Chunk struct {
	Index  int    // Position of the chunk in the plan
	Offset int    // Index of the first leaf in the full extracted list
	Leaves []Leaf // Leaves in extraction order
}

// IssueKind names a kind of structural drift detected after translation.
type IssueKind string

const (
	IssuePlaceholderMismatch IssueKind = "placeholder_mismatch"
	IssueURLMismatch         IssueKind = "url_mismatch"
	IssueEmailMismatch       IssueKind = "email_mismatch"
	IssueMarkupTokenMissing  IssueKind = "markup_token_missing"
)

// Issue is a soft, reportable problem found in one translated leaf.
// Issues never fail the pipeline.
type Issue struct {
	ChunkIndex int       `json:"chunk_index"`
	LeafIndex  int       `json:"leaf_index"` // Position within the chunk
	Address    string    `json:"address"`
	Kind       IssueKind `json:"kind"`
}

func (i Issue) String() string {
	return fmt.Sprintf("chunk %d leaf %d (%s): %s", i.ChunkIndex, i.LeafIndex, i.Address, i.Kind)
}

// Result is the outcome of localizing one document.
type Result struct {
	Success bool    `json:"success"`
	Data    *Value  `json:"data"`
	Issues  []Issue `json:"issues"`
	Summary string  `json:"summary,omitempty"`
	Error   string  `json:"error,omitempty"`

	TotalLeaves     int `json:"total_leaves"`
	TranslatedCount int `json:"translated_count"` // Leaves translated by the provider in this run
	CachedCount     int `json:"cached_count"`
	TrivialCount    int `json:"trivial_count"`
	Chunks          int `json:"chunks"`
	FailedChunks    int `json:"failed_chunks"`
}
