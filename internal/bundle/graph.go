package bundle

import (
	"path/filepath"
	"sort"

	"regolith/internal/label"
)

// Node is one label in the reference graph.
type Node struct {
	Doc   *label.Document
	Edges []Edge
}

// Edge is one resolved reference out of a node. Internal edges carry the
// target node index; external edges carry the absolute file path.
type Edge struct {
	Ref  label.Reference
	To   int // node index, -1 for external edges
	File string
}

// FileRef is one concrete file the bundle delivers.
type FileRef struct {
	Source     string // absolute path under the bundle root
	RelPath    string // path relative to the bundle root
	Referencer string // label that referenced the file
}

// Graph is the resolved reference graph of one bundle: an arena of label
// nodes plus every concrete file reached during traversal.
type Graph struct {
	Root     string // absolute bundle root
	RootNode int
	Nodes    []*Node

	files []FileRef
}

// Document returns the bundle's own label.
func (g *Graph) Document() *label.Document {
	return g.Nodes[g.RootNode].Doc
}

// Files returns the deduplicated file set in RelPath order. Two reference
// paths landing on the same file collapse to one entry; the first
// referencer seen wins. Deduplication runs over the completed traversal,
// so the result does not depend on visit order beyond that tie-break.
func (g *Graph) Files() []FileRef {
	bySource := make(map[string]FileRef, len(g.files))
	for _, f := range g.files {
		if _, ok := bySource[f.Source]; !ok {
			bySource[f.Source] = f
		}
	}
	out := make([]FileRef, 0, len(bySource))
	for _, f := range bySource {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out
}

func (g *Graph) addFile(source, referencer string) {
	rel, err := filepath.Rel(g.Root, source)
	if err != nil {
		rel = source
	}
	g.files = append(g.files, FileRef{Source: source, RelPath: filepath.ToSlash(rel), Referencer: referencer})
}
