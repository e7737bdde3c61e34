// Package srl implements the semantic-role-labeling feature extractor:
// one view per SRL frame, labeling the frame's verb span and argument
// spans with role labels. Frames arrive pre-annotated on the document;
// building them is the upstream annotator's concern.
package srl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/tbmihailov/discourse-aware-semantic-self-attention/document"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/extractors/api"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/views"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/vocab"
)

// Name is the extractor's registry name.
const Name = "srl_frames_flat_views"

// roles is the PropBank-style role inventory, in vocabulary order. The
// verb role comes first so predicates keep the lowest label id.
var roles = []string{
	"V",
	"ARG0", "ARG1", "ARG2", "ARG3", "ARG4", "ARG5",
	"ARGM-TMP", "ARGM-LOC", "ARGM-MNR", "ARGM-CAU", "ARGM-DIR",
	"ARGM-DIS", "ARGM-EXT", "ARGM-MOD", "ARGM-NEG", "ARGM-PRP",
	"ARGM-ADV", "ARGM-PRD", "ARGM-GOL", "ARGM-COM", "ARGM-REC",
}

func init() {
	api.Register(Name, func(cfg api.Config) (api.Extractor, error) {
		return New(cfg)
	})
}

// Extractor labels tokens by SRL role, one view per frame.
type Extractor struct {
	cfg     api.Config
	vocab   *vocab.Registry
	roleIdx map[string]int
}

var _ api.Extractor = &Extractor{}

// New creates an SRL frame view extractor. The vocabulary holds one
// entry per role, named "SRL__{ROLE}", ids starting at cfg.LabelsStartID.
func New(cfg api.Config) (*Extractor, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	names := make([]string, len(roles))
	roleIdx := make(map[string]int, len(roles))
	for i, role := range roles {
		names[i] = roleLabelName(role)
		roleIdx[role] = i
	}
	return &Extractor{
		cfg:     cfg,
		vocab:   vocab.NewRegistry(names, cfg.LabelsStartID),
		roleIdx: roleIdx,
	}, nil
}

// Vocab returns the role vocabulary.
func (e *Extractor) Vocab() *vocab.Registry { return e.vocab }

// Rebase shifts the role label ids to start at offset. Must not be
// called concurrently with Extract.
func (e *Extractor) Rebase(offset int) {
	e.vocab.Rebase(offset)
	e.cfg.LabelsStartID = offset
}

// Extract builds one view per SRL frame, in frame order, trimmed to the
// configured MaxViews. A document without frames yields the single
// all-background view, so the output shape is never empty.
func (e *Extractor) Extract(doc *document.Document) (*views.Pair, error) {
	if doc == nil || doc.Sentences == nil {
		return nil, errors.WithStack(&api.MissingFieldError{Field: "sentences"})
	}

	totalTokens := doc.TotalTokens()
	var frameViews []views.View
	for _, frame := range doc.SRLFrames {
		v := views.NewView(totalTokens)
		if err := e.paint(v, "V", frame.Verb.Start, frame.Verb.End, totalTokens); err != nil {
			return nil, err
		}
		for _, arg := range frame.Arguments {
			if err := e.paint(v, arg.Role, arg.Start, arg.End, totalTokens); err != nil {
				return nil, err
			}
		}
		frameViews = append(frameViews, v)
	}
	if len(frameViews) == 0 {
		frameViews = []views.View{views.NewView(totalTokens)}
	}
	if klog.V(2).Enabled() {
		klog.Infof("srl: %d tokens, %d frames (max views %d)",
			totalTokens, len(doc.SRLFrames), e.cfg.MaxViews)
	}

	return views.Stack(views.Trim(frameViews, e.cfg.MaxViews), views.StackOptions{
		ViewsAxis: e.cfg.ViewsAxis,
		MaxViews:  e.cfg.MaxViews,
		PadViews:  e.cfg.PadViews,
		UseMask:   e.cfg.UseMask,
	})
}

// paint writes the role's label over [start, end). Roles outside the
// inventory keep the background label.
func (e *Extractor) paint(v views.View, role string, start, end, totalTokens int) error {
	m := document.Mention{Start: start, End: end}
	if !m.InBounds(totalTokens) {
		return errors.Errorf("span [%d, %d) for role %s out of bounds for %d tokens",
			start, end, role, totalTokens)
	}
	idx, ok := e.roleIdx[strings.ToUpper(role)]
	if !ok {
		klog.V(2).Infof("srl: role %q not in inventory, keeping background", role)
		return nil
	}
	label := int32(e.cfg.LabelsStartID + idx + 1)
	for tkn := start; tkn < end; tkn++ {
		v[tkn] = label
	}
	return nil
}

// roleLabelName formats a vocabulary entry name the way the original
// annotation pipeline names interaction types: "{TYPE}__{SUBTYPE}",
// uppercased.
func roleLabelName(role string) string {
	return fmt.Sprintf("%s__%s", "SRL", strings.ToUpper(role))
}
