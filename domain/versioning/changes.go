// Package versioning fingerprints topology content so the workbench can tell
// what changed since the last save or load.
package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"feeder-workbench/domain/core/aggregates"
)

// Baseline is the fingerprint of a topology at a point in time
type Baseline struct {
	Checksum string `json:"checksum"`
	header   string
	nodes    map[string]string
	edges    map[string]string
}

// Diff lists what changed between two baselines
type Diff struct {
	HeaderChanged bool      `json:"header_changed"`
	Nodes         NodesDiff `json:"nodes"`
	Edges         EdgesDiff `json:"edges"`
}

// NodesDiff holds node ids by kind of change
type NodesDiff struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified []string `json:"modified"`
}

// EdgesDiff holds edge ids by kind of change
type EdgesDiff struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified []string `json:"modified"`
}

// IsEmpty reports whether nothing changed
func (d Diff) IsEmpty() bool {
	return !d.HeaderChanged &&
		len(d.Nodes.Added)+len(d.Nodes.Removed)+len(d.Nodes.Modified) == 0 &&
		len(d.Edges.Added)+len(d.Edges.Removed)+len(d.Edges.Modified) == 0
}

// Capture fingerprints a snapshot. Id and timestamps are left out, since
// saving assigns them without changing the content.
func Capture(snap aggregates.Snapshot) (Baseline, error) {
	header, err := hashOf(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ProfileType string `json:"profile_type"`
	}{snap.Name, snap.Description, string(snap.ProfileType)})
	if err != nil {
		return Baseline{}, err
	}

	b := Baseline{
		header: header,
		nodes:  make(map[string]string, len(snap.Nodes)),
		edges:  make(map[string]string, len(snap.Edges)),
	}
	for _, n := range snap.Nodes {
		h, err := hashOf(n)
		if err != nil {
			return Baseline{}, fmt.Errorf("failed to fingerprint node %s: %w", n.ID, err)
		}
		b.nodes[n.ID.String()] = h
	}
	for _, e := range snap.Edges {
		h, err := hashOf(e)
		if err != nil {
			return Baseline{}, fmt.Errorf("failed to fingerprint edge %s: %w", e.ID, err)
		}
		b.edges[e.ID.String()] = h
	}

	b.Checksum = b.combined()
	return b, nil
}

// Compare lists what changed from base to current. A zero base counts
// everything in current as added.
func Compare(base, current Baseline) Diff {
	added, removed, modified := compareSets(base.nodes, current.nodes)
	d := Diff{
		HeaderChanged: base.header != current.header,
		Nodes:         NodesDiff{Added: added, Removed: removed, Modified: modified},
	}
	added, removed, modified = compareSets(base.edges, current.edges)
	d.Edges = EdgesDiff{Added: added, Removed: removed, Modified: modified}
	return d
}

func compareSets(base, current map[string]string) (added, removed, modified []string) {
	added, removed, modified = []string{}, []string{}, []string{}
	for id, h := range current {
		old, ok := base[id]
		switch {
		case !ok:
			added = append(added, id)
		case old != h:
			modified = append(modified, id)
		}
	}
	for id := range base {
		if _, ok := current[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)
	return added, removed, modified
}

// combined folds every part hash into one checksum, independent of insertion order
func (b Baseline) combined() string {
	parts := make([]string, 0, len(b.nodes)+len(b.edges)+1)
	parts = append(parts, "h:"+b.header)
	for id, h := range b.nodes {
		parts = append(parts, "n:"+id+":"+h)
	}
	for id, h := range b.edges {
		parts = append(parts, "e:"+id+":"+h)
	}
	sort.Strings(parts)

	sum := sha256.New()
	for _, p := range parts {
		sum.Write([]byte(p))
		sum.Write([]byte{0})
	}
	return hex.EncodeToString(sum.Sum(nil))
}

func hashOf(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
