package bundle

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"regolith/internal/label"
	"regolith/internal/logging"
)

// Resolver builds reference graphs from bundle roots.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a resolver. A nil logger disables logging.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logging.NewComponentLogger(logger, "resolver")}
}

// Resolve loads every label under bundleRoot, then walks references from
// the bundle label. It fails on the first cycle, dangling reference, or
// escaping path; a returned graph always covers the complete bundle.
func (r *Resolver) Resolve(ctx context.Context, bundleRoot string) (*Graph, error) {
	root, err := filepath.Abs(bundleRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle root %q: %w", bundleRoot, err)
	}

	bundlePath := filepath.Join(root, "bundle.xml")
	if _, err := os.Stat(bundlePath); err != nil {
		return nil, &DanglingReferenceError{Referencer: root, Target: bundlePath}
	}

	graph := &Graph{Root: root}
	byLID, err := r.indexLabels(ctx, graph)
	if err != nil {
		return nil, err
	}

	rootIdx := -1
	for i, node := range graph.Nodes {
		if node.Doc.Path == bundlePath {
			rootIdx = i
			break
		}
	}
	if rootIdx < 0 {
		return nil, &DanglingReferenceError{Referencer: root, Target: bundlePath}
	}
	graph.RootNode = rootIdx

	walk := &walker{
		graph:   graph,
		byLID:   byLID,
		onPath:  make(map[int]bool),
		visited: make(map[int]bool),
		logger:  r.logger,
	}
	if err := walk.visit(ctx, rootIdx); err != nil {
		return nil, err
	}

	r.logger.Info(
		"bundle resolved",
		logging.String(logging.FieldBundle, graph.Document().LID),
		logging.Int("labels", len(walk.visited)),
		logging.Int("files", len(graph.Files())),
	)
	return graph, nil
}

// indexLabels loads every *.xml under the root into the node arena and
// indexes nodes by logical identifier.
func (r *Resolver) indexLabels(ctx context.Context, graph *Graph) (map[string]int, error) {
	byLID := make(map[string]int)

	err := filepath.WalkDir(graph.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		doc, err := label.Load(path)
		if err != nil {
			return err
		}
		if prev, ok := byLID[doc.LID]; ok {
			return fmt.Errorf(
				"logical identifier %s declared by both %s and %s",
				doc.LID, graph.Nodes[prev].Doc.Path, path,
			)
		}
		byLID[doc.LID] = len(graph.Nodes)
		graph.Nodes = append(graph.Nodes, &Node{Doc: doc})
		r.logger.Debug("indexed label", logging.String("path", path), logging.String("lid", doc.LID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return byLID, nil
}

type walker struct {
	graph   *Graph
	byLID   map[string]int
	onPath  map[int]bool
	stack   []int
	visited map[int]bool
	logger  *slog.Logger
}

func (w *walker) visit(ctx context.Context, idx int) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	node := w.graph.Nodes[idx]
	w.onPath[idx] = true
	w.stack = append(w.stack, idx)
	defer func() {
		delete(w.onPath, idx)
		w.stack = w.stack[:len(w.stack)-1]
	}()
	w.visited[idx] = true

	w.graph.addFile(node.Doc.Path, node.Doc.Path)

	for _, ref := range node.Doc.Refs {
		switch {
		case ref.Internal():
			if !ref.Primary() {
				w.logger.Debug(
					"skipping non-primary member",
					logging.String("label", node.Doc.Path),
					logging.String("target", ref.LID),
				)
				continue
			}
			if err := w.follow(ctx, idx, ref.LID, ref.VID); err != nil {
				return err
			}
		default:
			if err := w.external(ctx, idx, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// follow resolves an internal reference by logical identifier and recurses.
func (w *walker) follow(ctx context.Context, from int, lid, vid string) error {
	doc := w.graph.Nodes[from].Doc

	target := lid
	if vid != "" {
		target = lid + "::" + vid
	}
	idx, ok := w.byLID[lid]
	if !ok {
		return &DanglingReferenceError{Referencer: doc.Path, Target: target}
	}
	if vid != "" && w.graph.Nodes[idx].Doc.VID != vid {
		return &DanglingReferenceError{Referencer: doc.Path, Target: target}
	}

	w.graph.Nodes[from].Edges = append(w.graph.Nodes[from].Edges, Edge{
		Ref: label.Reference{Kind: label.KindMember, LID: lid, VID: vid, Status: "Primary"},
		To:  idx,
	})

	if w.onPath[idx] {
		return &CyclicReferenceError{Cycle: w.cycleChain(idx)}
	}
	if w.visited[idx] {
		return nil // shared subtree, already walked
	}
	return w.visit(ctx, idx)
}

// external resolves a file reference, records it, and expands inventories.
func (w *walker) external(ctx context.Context, from int, ref label.Reference) error {
	doc := w.graph.Nodes[from].Doc

	target := ref.FileName
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(doc.Path), filepath.FromSlash(target))
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(w.graph.Root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &PathEscapeError{Referencer: doc.Path, Target: ref.FileName}
	}
	if _, err := os.Stat(target); err != nil {
		return &DanglingReferenceError{Referencer: doc.Path, Target: target}
	}

	w.graph.Nodes[from].Edges = append(w.graph.Nodes[from].Edges, Edge{Ref: ref, To: -1, File: target})
	w.graph.addFile(target, doc.Path)

	if ref.Kind != label.KindInventory {
		return nil
	}

	entries, err := label.LoadInventory(target)
	if err != nil {
		return &label.UnreadableError{Path: target, Err: err}
	}
	for _, entry := range entries {
		if !entry.Primary {
			w.logger.Debug(
				"skipping secondary inventory member",
				logging.String("inventory", target),
				logging.String("target", entry.LID),
			)
			continue
		}
		if err := w.follow(ctx, from, entry.LID, entry.VID); err != nil {
			return err
		}
	}
	return nil
}

// cycleChain renders the on-path labels from the repeated node onward,
// closing the loop with the repeated label itself.
func (w *walker) cycleChain(repeat int) []string {
	start := 0
	for i, idx := range w.stack {
		if idx == repeat {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(w.stack)-start+1)
	for _, idx := range w.stack[start:] {
		chain = append(chain, w.graph.Nodes[idx].Doc.Path)
	}
	chain = append(chain, w.graph.Nodes[repeat].Doc.Path)
	return chain
}
