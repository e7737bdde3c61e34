// Package document defines the parsed-document structures produced by the
// upstream linguistic annotation pipeline: sentence/token boundaries,
// coreference clusters and semantic-role-labeling frames.
//
// Documents are decoded from the annotator's JSON output and treated as
// immutable inputs by the feature extractors.
package document

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Document is one annotated document. Sentences is always present for a
// valid parse; CorefClusters and SRLFrames are optional (absent means the
// annotator produced none).
type Document struct {
	Sentences     []Sentence     `json:"sentences"`
	CorefClusters []CorefCluster `json:"coref_clusters,omitempty"`
	SRLFrames     []SRLFrame     `json:"srl_frames,omitempty"`
}

// Sentence holds the tokens of one sentence, in surface order.
type Sentence struct {
	Tokens []string `json:"tokens"`
}

// CorefCluster is a set of mentions asserted to refer to the same entity.
// The cluster's identifier is its position in Document.CorefClusters.
type CorefCluster struct {
	Mentions []Mention `json:"mentions,omitempty"`
}

// Mention is a half-open token range [Start, End) over the flattened
// document token sequence.
type Mention struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SRLFrame is one predicate-argument structure from the semantic role
// labeler. The frame is consumed as-is; how it was built is the
// annotator's concern.
type SRLFrame struct {
	Verb      Mention    `json:"verb"`
	Arguments []Argument `json:"arguments,omitempty"`
}

// Argument is a labeled span of an SRL frame, e.g. role "ARG0" over
// tokens [Start, End).
type Argument struct {
	Role  string `json:"role"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Decode reads one JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode document JSON")
	}
	return &doc, nil
}

// Parse decodes one JSON document from data.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse document JSON")
	}
	return &doc, nil
}

// TotalTokens returns the number of tokens across all sentences, in
// sentence order. This defines the flattened token index space used by
// mention and argument spans.
func (d *Document) TotalTokens() int {
	total := 0
	for _, sent := range d.Sentences {
		total += len(sent.Tokens)
	}
	return total
}

// Span returns the mention's token range.
func (m Mention) Span() (start, end int) { return m.Start, m.End }

// InBounds reports whether the range [Start, End) fits a document with
// totalTokens tokens.
func (m Mention) InBounds(totalTokens int) bool {
	return m.Start >= 0 && m.Start <= m.End && m.End <= totalTokens
}
