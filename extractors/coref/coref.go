// Package coref implements the coreference-cluster feature extractor: one
// flat per-token view labeling each token with the coreference cluster it
// belongs to (0 for none), stacked and padded into the aligned
// feature/mask tensor pair the attention encoder consumes.
package coref

import (
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/tbmihailov/discourse-aware-semantic-self-attention/document"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/extractors/api"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/views"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/vocab"
)

// Name is the extractor's registry name, matching the experiment
// configuration key of the original system.
const Name = "coref_feats_flat_views"

func init() {
	api.Register(Name, func(cfg api.Config) (api.Extractor, error) {
		return New(cfg)
	})
}

// Extractor labels tokens by coreference cluster membership.
type Extractor struct {
	cfg   api.Config
	vocab *vocab.Registry
}

// Compile time assert that coref.Extractor implements api.Extractor.
var _ api.Extractor = &Extractor{}

// New creates a coreference view extractor. The vocabulary holds one
// entry per encodable cluster, "C00".."C{MaxCorefClusters-1}", with ids
// starting at cfg.LabelsStartID.
func New(cfg api.Config) (*Extractor, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{
		cfg:   cfg,
		vocab: vocab.NewClusterRegistry(cfg.MaxCorefClusters, cfg.LabelsStartID),
	}, nil
}

// Vocab returns the cluster-name vocabulary.
func (e *Extractor) Vocab() *vocab.Registry { return e.vocab }

// Rebase shifts the cluster label ids to start at offset. Must not be
// called concurrently with Extract.
func (e *Extractor) Rebase(offset int) {
	e.vocab.Rebase(offset)
	e.cfg.LabelsStartID = offset
}

// Extract builds the coreference view of one document.
//
// Every token covered by a mention of a selected cluster is labeled
// LabelsStartID + position-in-selection + 1; all other tokens keep the
// background label 0. Mentions are painted cluster by cluster in
// selection order, so on overlapping mentions the later cluster wins.
func (e *Extractor) Extract(doc *document.Document) (*views.Pair, error) {
	if doc == nil || doc.Sentences == nil {
		return nil, errors.WithStack(&api.MissingFieldError{Field: "sentences"})
	}

	totalTokens := doc.TotalTokens()
	feats := views.NewView(totalTokens)

	clusters := selectClusters(doc.CorefClusters, e.cfg.MaxCorefClusters)
	if klog.V(2).Enabled() {
		klog.Infof("coref: %d tokens, %d/%d clusters selected",
			totalTokens, len(clusters), len(doc.CorefClusters))
	}
	for pos, cluster := range clusters {
		label := int32(e.cfg.LabelsStartID + pos + 1)
		for _, mention := range cluster.Mentions {
			if !mention.InBounds(totalTokens) {
				return nil, errors.Errorf("mention [%d, %d) out of bounds for %d tokens",
					mention.Start, mention.End, totalTokens)
			}
			for tkn := mention.Start; tkn < mention.End; tkn++ {
				feats[tkn] = label
			}
		}
	}

	return views.Stack(views.Trim([]views.View{feats}, e.cfg.MaxViews), views.StackOptions{
		ViewsAxis: e.cfg.ViewsAxis,
		MaxViews:  e.cfg.MaxViews,
		PadViews:  e.cfg.PadViews,
		UseMask:   e.cfg.UseMask,
	})
}

// selectClusters caps the cluster list at maxClusters. When over
// capacity, clusters are ranked by ascending (mention count, original
// index) and the first maxClusters are kept — clusters with fewer
// mentions are preferred, ties broken by input order. This ordering is a
// contract of the ported system and must not be changed.
func selectClusters(clusters []document.CorefCluster, maxClusters int) []document.CorefCluster {
	if len(clusters) <= maxClusters {
		return clusters
	}
	type ranked struct {
		index   int
		cluster document.CorefCluster
	}
	order := make([]ranked, len(clusters))
	for i, cl := range clusters {
		order[i] = ranked{index: i, cluster: cl}
	}
	sort.SliceStable(order, func(a, b int) bool {
		na, nb := len(order[a].cluster.Mentions), len(order[b].cluster.Mentions)
		if na != nb {
			return na < nb
		}
		return order[a].index < order[b].index
	})
	selected := make([]document.CorefCluster, maxClusters)
	for i := range selected {
		selected[i] = order[i].cluster
	}
	return selected
}
