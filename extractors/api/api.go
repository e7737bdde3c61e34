// Package api defines the token-wise interaction feature extractor
// capability. It only holds the interface, its configuration and the
// constructor registry, so that implementation packages (coref, sentid,
// srl) and their consumers can depend on it without cycles.
package api

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/tbmihailov/discourse-aware-semantic-self-attention/document"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/views"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/vocab"
)

// Extractor converts a parsed document into a pair of aligned tensors: a
// per-token feature view tensor and its mask, consumed by the downstream
// attention encoder as auxiliary query/key features.
//
// Extract is pure over its inputs and safe to call concurrently across
// documents, provided the extractor's vocabulary is not rebased during
// that window: rebasing is a setup-phase operation and the capability
// provides no internal locking.
type Extractor interface {
	// Extract builds the feature views of one document. The returned
	// pair always satisfies Features.Shape == Mask.Shape.
	Extract(doc *document.Document) (*views.Pair, error)

	// Vocab returns the extractor's label vocabulary, for export to the
	// external vocabulary-management subsystem.
	Vocab() *vocab.Registry

	// Rebase shifts the vocabulary's label ids to start at offset, so
	// several extractors' vocabularies can share one global id space.
	Rebase(offset int)
}

// Config carries the construction parameters shared by the flat-view
// extractors. Zero values are valid except MaxViews; use Validate.
type Config struct {
	// MaxViews is the number of feature channels the extractor may emit
	// per call. Must be at least 1.
	MaxViews int

	// MaxCorefClusters caps the number of distinct coreference clusters
	// encoded. Only meaningful for the coref extractor.
	MaxCorefClusters int

	// LabelsStartID is the base id offset of the extractor's vocabulary.
	// 0 is reserved for the background label, so this defaults to 1.
	LabelsStartID int

	// Namespace is an opaque grouping tag for the vocabulary. It is not
	// used in any computation.
	Namespace string

	// PadViews tiles a narrower output up to MaxViews channels.
	PadViews bool

	// ViewsAxis selects the output layout: 0 for [views, tokens]
	// (default), 1 for [tokens, views].
	ViewsAxis int

	// UseMask returns the feature tensor itself as the mask instead of
	// an all-ones mask.
	UseMask bool
}

// WithDefaults returns the config with unset defaulted fields filled in.
func (c Config) WithDefaults() Config {
	if c.LabelsStartID == 0 {
		c.LabelsStartID = 1
	}
	return c
}

// Validate checks the construction parameters. It returns a
// *ConfigurationError describing the first invalid parameter found.
func (c Config) Validate() error {
	if c.MaxViews < 1 {
		return errors.WithStack(&ConfigurationError{Param: "MaxViews", Reason: "must be at least 1"})
	}
	if c.MaxCorefClusters < 0 {
		return errors.WithStack(&ConfigurationError{Param: "MaxCorefClusters", Reason: "must not be negative"})
	}
	if c.LabelsStartID < 0 {
		return errors.WithStack(&ConfigurationError{Param: "LabelsStartID", Reason: "must not be negative"})
	}
	if c.ViewsAxis != 0 && c.ViewsAxis != 1 {
		return errors.WithStack(&ConfigurationError{Param: "ViewsAxis", Reason: "must be 0 or 1"})
	}
	return nil
}

// Constructor builds an extractor from a config. Implementation packages
// register one under the name the experiment configuration refers to.
type Constructor func(cfg Config) (Extractor, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a constructor available under the given name.
// Implementations call it from their package init.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// New builds the named extractor.
func New(name string, cfg Config) (Extractor, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("no feature extractor registered under %q (known: %v)", name, Names())
	}
	return ctor(cfg)
}

// Names lists the registered extractor names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
