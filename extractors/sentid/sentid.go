// Package sentid implements the sentence-index feature extractor: one
// flat view labeling every token with the ordinal of the sentence it
// belongs to. Tokens of sentence k carry the label LabelsStartID + k + 1,
// following the same background reservation as the other flat-view
// extractors even though a token always has a sentence.
package sentid

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/tbmihailov/discourse-aware-semantic-self-attention/document"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/extractors/api"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/views"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/vocab"
)

// Name is the extractor's registry name.
const Name = "sent_ids_flat_views"

// MaxSentences bounds the sentence vocabulary. Sentences beyond this
// ordinal reuse the last label.
const MaxSentences = 300

func init() {
	api.Register(Name, func(cfg api.Config) (api.Extractor, error) {
		return New(cfg)
	})
}

// Extractor labels tokens by sentence ordinal.
type Extractor struct {
	cfg   api.Config
	vocab *vocab.Registry
}

var _ api.Extractor = &Extractor{}

// New creates a sentence-index view extractor.
func New(cfg api.Config) (*Extractor, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	names := make([]string, MaxSentences)
	for i := range names {
		names[i] = fmt.Sprintf("S%03d", i)
	}
	return &Extractor{
		cfg:   cfg,
		vocab: vocab.NewRegistry(names, cfg.LabelsStartID),
	}, nil
}

// Vocab returns the sentence-ordinal vocabulary.
func (e *Extractor) Vocab() *vocab.Registry { return e.vocab }

// Rebase shifts the sentence label ids to start at offset. Must not be
// called concurrently with Extract.
func (e *Extractor) Rebase(offset int) {
	e.vocab.Rebase(offset)
	e.cfg.LabelsStartID = offset
}

// Extract builds the sentence-index view of one document.
func (e *Extractor) Extract(doc *document.Document) (*views.Pair, error) {
	if doc == nil || doc.Sentences == nil {
		return nil, errors.WithStack(&api.MissingFieldError{Field: "sentences"})
	}

	feats := views.NewView(doc.TotalTokens())
	tkn := 0
	for sentID, sent := range doc.Sentences {
		ordinal := sentID
		if ordinal >= MaxSentences {
			ordinal = MaxSentences - 1
		}
		label := int32(e.cfg.LabelsStartID + ordinal + 1)
		for range sent.Tokens {
			feats[tkn] = label
			tkn++
		}
	}
	klog.V(2).Infof("sentid: %d tokens over %d sentences", tkn, len(doc.Sentences))

	return views.Stack(views.Trim([]views.View{feats}, e.cfg.MaxViews), views.StackOptions{
		ViewsAxis: e.cfg.ViewsAxis,
		MaxViews:  e.cfg.MaxViews,
		PadViews:  e.cfg.PadViews,
		UseMask:   e.cfg.UseMask,
	})
}
