// Package vocab implements the label vocabulary used by the feature
// extractors: a bidirectional mapping between symbolic feature labels
// (e.g. per-cluster names "C00".."C31", or SRL role names) and integer
// ids drawn from a contiguous range.
//
// A Registry is built once per extractor and is read-only during
// extraction. Rebase is the only mutation after construction; it exists so
// several feature vocabularies can be shifted into one global id space
// without collisions. Callers must finish all rebasing before concurrent
// extraction starts — the Registry has no internal locking.
package vocab

import "fmt"

// Registry maps feature label names to integer ids and back.
type Registry struct {
	nameToID map[string]int
	offset   int
}

// NewClusterRegistry creates a registry with maxClusters entries named by
// the fixed two-digit zero-padded scheme "C00".."C{maxClusters-1}", ids
// assigned consecutively starting at startID.
func NewClusterRegistry(maxClusters, startID int) *Registry {
	names := make([]string, maxClusters)
	for i := range names {
		names[i] = clusterName(i)
	}
	return NewRegistry(names, startID)
}

// NewRegistry creates a registry over the given label names, ids assigned
// consecutively in input order starting at startID. Names must be unique.
func NewRegistry(names []string, startID int) *Registry {
	r := &Registry{
		nameToID: make(map[string]int, len(names)),
		offset:   startID,
	}
	for i, name := range names {
		r.nameToID[name] = startID + i
	}
	return r
}

// Rebase shifts every id by a constant so that the registry's id range
// starts at newOffset: id' = id - currentOffset + newOffset. Calling
// Rebase twice with the same offset is a no-op after the first call.
func (r *Registry) Rebase(newOffset int) {
	if newOffset == r.offset {
		return
	}
	for name, id := range r.nameToID {
		r.nameToID[name] = id - r.offset + newOffset
	}
	r.offset = newOffset
}

// Offset returns the current id offset (the id of the first label).
func (r *Registry) Offset() int { return r.offset }

// Len returns the number of labels.
func (r *Registry) Len() int { return len(r.nameToID) }

// NameToID returns a copy of the forward label→id mapping.
func (r *Registry) NameToID() map[string]int {
	out := make(map[string]int, len(r.nameToID))
	for name, id := range r.nameToID {
		out[name] = id
	}
	return out
}

// IDToName returns the inverse id→label mapping. Ids are unique as long as
// the registry was not rebased into an overlapping id range of another
// vocabulary that was merged into it — that is a caller error and is not
// guarded here.
func (r *Registry) IDToName() map[int]string {
	out := make(map[int]string, len(r.nameToID))
	for name, id := range r.nameToID {
		out[id] = name
	}
	return out
}

func clusterName(i int) string {
	return fmt.Sprintf("C%02d", i)
}
