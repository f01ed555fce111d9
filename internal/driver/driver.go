// Package driver orchestrates one project's re-index: discovery, bounded
// parallel per-file extraction, project-wide call/import resolution, and
// transactional per-file commit into the graph store.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vibegraph/vibegraph/internal/discover"
	"github.com/vibegraph/vibegraph/internal/extract"
	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/ids"
	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/resolve"
	"github.com/vibegraph/vibegraph/internal/store"
)

// Notifier receives the set of re-indexed paths after a commit lands, so a
// long-lived client (the MCP tool surface, the change watcher) can learn
// the graph moved without polling the store itself.
type Notifier interface {
	NotifyChanged(paths []string)
}

// NopNotifier discards notifications; the default when none is supplied.
type NopNotifier struct{}

func (NopNotifier) NotifyChanged([]string) {}

// Driver orchestrates extraction, resolution and commit against one
// project's graph store.
type Driver struct {
	Store      *store.Store
	Root       string
	IgnoreFile string
	Notifier   Notifier
}

// New returns a Driver rooted at root, committing into s.
func New(s *store.Store, root string) *Driver {
	return &Driver{Store: s, Root: root, Notifier: NopNotifier{}}
}

type fileExtraction struct {
	info   discover.FileInfo
	result *extract.Result
}

// ReindexAll discovers every source file under the project root, extracts
// and resolves them as one batch, and commits the result file by file.
func (d *Driver) ReindexAll(ctx context.Context) error {
	slog.Info("driver.reindex_all.start", "root", d.Root)

	files, err := discover.Discover(ctx, d.Root, &discover.Options{IgnoreFile: d.IgnoreFile})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	slog.Info("driver.discovered", "files", len(files))

	extractions, err := d.extractAll(ctx, files)
	if err != nil {
		return err
	}
	if err := d.commit(extractions); err != nil {
		return err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.RelPath
	}
	d.Notifier.NotifyChanged(paths)
	slog.Info("driver.reindex_all.done", "files", len(files))
	return nil
}

// ReindexPath re-extracts a single file or subtree in the context of the
// full project's resolution registries and refreshes only that slice of the
// graph. Used by the change watcher on a create/modify event and by the
// reindex tool when the caller scopes it below the project root.
func (d *Driver) ReindexPath(ctx context.Context, absPath string) error {
	relPath, err := filepath.Rel(d.Root, absPath)
	if err != nil {
		return fmt.Errorf("relativize %s: %w", absPath, err)
	}
	relPath = filepath.ToSlash(relPath)

	if relPath == "." {
		return d.ReindexAll(ctx)
	}
	info, statErr := os.Stat(absPath)
	isDir := statErr == nil && info.IsDir()
	if !isDir {
		if _, ok := lang.LanguageForExtension(filepath.Ext(absPath)); !ok {
			return nil
		}
	}

	files, err := discover.Discover(ctx, d.Root, &discover.Options{IgnoreFile: d.IgnoreFile})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	extractions, err := d.extractAll(ctx, files)
	if err != nil {
		return err
	}

	match := func(p string) bool { return p == relPath }
	if isDir {
		prefix := strings.TrimSuffix(relPath, "/") + "/"
		match = func(p string) bool { return strings.HasPrefix(p, prefix) }
	}
	if err := d.commitMatched(extractions, match); err != nil {
		return err
	}

	d.Notifier.NotifyChanged([]string{relPath})
	return nil
}

// ClearPath removes a deleted file's nodes and edges from the graph. A
// deleted directory arrives as one event for the directory itself, so the
// subtree beneath the path is cleared too.
func (d *Driver) ClearPath(absPath string) error {
	relPath, err := filepath.Rel(d.Root, absPath)
	if err != nil {
		return fmt.Errorf("relativize %s: %w", absPath, err)
	}
	relPath = filepath.ToSlash(relPath)

	if err := d.Store.WithTransaction(func(tx *store.Store) error {
		if err := tx.ClearFile(relPath); err != nil {
			return err
		}
		return tx.ClearDir(relPath)
	}); err != nil {
		return fmt.Errorf("clear %s: %w", relPath, err)
	}
	d.Notifier.NotifyChanged([]string{relPath})
	return nil
}

// extractAll reads and extracts every file with bounded parallelism; a
// single file's read or parse failure is recorded on its own Result and
// never aborts the batch.
func (d *Driver) extractAll(ctx context.Context, files []discover.FileInfo) ([]fileExtraction, error) {
	extractions := make([]fileExtraction, len(files))
	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(f.Path)
			if err != nil {
				extractions[i] = fileExtraction{info: f, result: &extract.Result{Err: err}}
				return nil
			}
			extractions[i] = fileExtraction{info: f, result: extract.Extract(f.Language, f.RelPath, source)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return extractions, nil
}

// fileBatch is one file's fully resolved commit unit: its nodes (including
// any placeholders its references produced) and every edge it contributes.
type fileBatch struct {
	info   discover.FileInfo
	nodes  []*store.Node
	edges  []*store.Edge
	ownIDs map[string]bool // IDs committed with this batch (nodes + placeholders)
}

// commit builds the project-wide module registry and call registry from
// every file's unresolved extraction, then resolves and writes each file's
// batch. Each file's nodes and intra-file edges
// land in their own transaction first; cross-file edges are deferred until
// every involved file's nodes exist.
func (d *Driver) commit(extractions []fileExtraction) error {
	return d.commitMatched(extractions, nil)
}

// commitMatched builds the project-wide registries from every file's
// extraction (so cross-file resolution still sees the whole project) but
// only clears and re-writes the slices of the graph whose file paths match,
// a scoped reindex must not
// touch rows belonging to any other file. Cross-file edges with exactly one
// endpoint inside the matched set are the one exception the invariant
// allows: ClearFile drops them along with the matched rows, so they are
// recomputed from the other files' extractions and re-inserted. A nil match
// commits everything.
func (d *Driver) commitMatched(extractions []fileExtraction, match func(relPath string) bool) error {
	paths := make([]string, 0, len(extractions))
	for _, fe := range extractions {
		if fe.result.Err == nil {
			paths = append(paths, fe.info.RelPath)
		}
	}
	reg := resolve.NewRegistry(paths)

	callReg := resolve.NewCallRegistry()
	for _, fe := range extractions {
		if fe.result.Err != nil {
			continue
		}
		for _, n := range fe.result.Nodes {
			callReg.Register(n.QualifiedName, n.ID)
		}
	}

	var batches []*fileBatch
	for _, fe := range extractions {
		if fe.result.Err != nil {
			slog.Warn("driver.extract.err", "file", fe.info.RelPath, "err", fe.result.Err)
			continue
		}
		batches = append(batches, buildBatch(fe, reg, callReg))
	}

	var targetIDs map[string]bool
	if match != nil {
		targetIDs = make(map[string]bool)
		for _, b := range batches {
			if match(b.info.RelPath) {
				for id := range b.ownIDs {
					targetIDs[id] = true
				}
			}
		}
	}

	// Phase one: per-file transactions carrying the file's nodes and the
	// edges both of whose endpoints those nodes cover. Edges into other
	// files are deferred so their target nodes exist before insertion.
	var deferred []*store.Edge
	for _, b := range batches {
		if match != nil && !match(b.info.RelPath) {
			for _, e := range b.edges {
				if targetIDs[e.FromID] || targetIDs[e.ToID] {
					deferred = append(deferred, e)
				}
			}
			continue
		}
		var local []*store.Edge
		for _, e := range b.edges {
			if b.ownIDs[e.FromID] && b.ownIDs[e.ToID] {
				local = append(local, e)
			} else {
				deferred = append(deferred, e)
			}
		}
		if err := d.commitBatch(b, local); err != nil {
			return fmt.Errorf("commit %s: %w", b.info.RelPath, err)
		}
	}

	// Phase two: cross-file edges, endpoint-checked so a stale far endpoint
	// (a file that changed on disk but hasn't been re-indexed yet) skips the
	// edge instead of failing the run.
	if err := d.commitCrossEdges(dedupeEdges(deferred)); err != nil {
		return err
	}
	return d.rewritePlaceholders()
}

func (d *Driver) commitBatch(b *fileBatch, local []*store.Edge) error {
	return d.Store.WithTransaction(func(tx *store.Store) error {
		if err := tx.ClearFile(b.info.RelPath); err != nil {
			return err
		}
		if err := tx.UpsertNodeBatch(b.nodes); err != nil {
			return err
		}
		return tx.InsertEdgeBatch(local)
	})
}

func (d *Driver) commitCrossEdges(edges []*store.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	return d.Store.WithTransaction(func(tx *store.Store) error {
		for _, e := range edges {
			if err := tx.InsertEdgeChecked(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// rewritePlaceholders redirects edges aimed at a placeholder whose
// qualified name now has a concrete definition (a forward reference or an
// import that landed before its target file existed), then drops
// placeholders no edge touches anymore.
func (d *Driver) rewritePlaceholders() error {
	return d.Store.WithTransaction(func(tx *store.Store) error {
		placeholders, err := tx.FindNodesByFile(store.ExternalFile)
		if err != nil {
			return err
		}
		for _, ph := range placeholders {
			concrete, err := tx.FindConcreteNodeByQN(ph.QualifiedName)
			if err != nil {
				return err
			}
			if concrete == nil {
				continue
			}
			if err := tx.RewriteEdgeTarget(ph.ID, concrete.ID); err != nil {
				return err
			}
		}
		return tx.DeleteOrphanPlaceholders()
	})
}

func buildBatch(fe fileExtraction, reg *resolve.Registry, callReg *resolve.CallRegistry) *fileBatch {
	res := fe.result
	moduleQN := res.ModuleNode.QualifiedName

	placeholders := make(map[string]*store.Node)
	importMap := make(map[string]string)
	var edges []*store.Edge
	edges = append(edges, res.Edges...)

	for _, imp := range res.Imports {
		resn := resolve.Resolve(string(fe.info.Language), imp.Raw, fe.info.RelPath, reg)

		alias := imp.Alias
		if alias == "" {
			alias = lastSegment(imp.Raw)
		}

		var targetID, moduleTarget string
		if resn.Category == resolve.Internal {
			moduleTarget = fqn.FileModuleName(resn.Path)
			targetID = ids.NodeID(resn.Path, moduleTarget)
		} else {
			moduleTarget = imp.Raw
			targetID = ids.PlaceholderID(imp.Raw)
			placeholders[targetID] = placeholderNode(targetID, imp.Raw)
		}

		if imp.Symbol != "" {
			importMap[alias] = moduleTarget + "." + imp.Symbol
		} else {
			importMap[alias] = moduleTarget
		}

		edges = append(edges, &store.Edge{
			FromID: imp.FromID, ToID: targetID, Relation: store.RelationImports, SiteLine: imp.SiteLine,
		})
	}

	for _, call := range res.Calls {
		id := resolveOrPlaceholder(call.Callee, lastSegment(call.Callee), moduleQN, importMap, callReg, placeholders)
		edges = append(edges, &store.Edge{FromID: call.FromID, ToID: id, Relation: store.RelationCalls, SiteLine: call.SiteLine})
	}

	for _, inh := range res.Inherits {
		fromID := inh.FromID
		if fromID == "" {
			fromID = resolveOrPlaceholder(inh.FromName, inh.FromName, moduleQN, importMap, callReg, placeholders)
		}
		toID := resolveOrPlaceholder(inh.Target, inh.Target, moduleQN, importMap, callReg, placeholders)
		edges = append(edges, &store.Edge{FromID: fromID, ToID: toID, Relation: inh.Relation, SiteLine: inh.SiteLine})
	}

	// Contains/defines edges whose parent may be declared in another file of
	// the same package/crate (a Go receiver type, a Rust impl's Self type):
	// resolved the same way as calls/inherits, with the same placeholder
	// fallback, rather than assuming the parent lives alongside the child.
	for _, c := range res.Contains {
		parentID := resolveOrPlaceholder(c.ParentName, c.ParentName, moduleQN, importMap, callReg, placeholders)
		edges = append(edges, &store.Edge{FromID: parentID, ToID: c.ChildID, Relation: store.RelationDefines, SiteLine: c.SiteLine})
	}

	nodes := append([]*store.Node{}, res.Nodes...)
	for _, n := range placeholders {
		nodes = append(nodes, n)
	}
	nodes = dedupeNodes(nodes)

	ownIDs := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ownIDs[n.ID] = true
	}
	return &fileBatch{info: fe.info, nodes: nodes, edges: dedupeEdges(edges), ownIDs: ownIDs}
}

// resolveOrPlaceholder resolves a name reference against the project-wide
// call registry, registering a placeholder node (keyed by placeholderName)
// when no project-wide match exists. Shared by the calls/inherits/contains
// resolution loops in buildBatch.
func resolveOrPlaceholder(name, placeholderName, moduleQN string, importMap map[string]string, callReg *resolve.CallRegistry, placeholders map[string]*store.Node) string {
	if qn, ok := callReg.Resolve(name, moduleQN, importMap); ok {
		if id, ok := callReg.NodeID(qn); ok {
			return id
		}
	}
	id := ids.PlaceholderID(placeholderName)
	placeholders[id] = placeholderNode(id, placeholderName)
	return id
}

func placeholderNode(id, qualifiedName string) *store.Node {
	return &store.Node{
		ID:            id,
		Name:          lastSegment(qualifiedName),
		QualifiedName: qualifiedName,
		Kind:          store.KindModule,
		FilePath:      store.ExternalFile,
		Visibility:    store.VisibilityPublic,
	}
}

// lastSegment returns the final dot- or slash-separated component of a
// qualified name or import path ("pkg.util.Helper" -> "Helper",
// "./components/Button" -> "Button").
func lastSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if idx := strings.LastIndexAny(s, "./"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func dedupeNodes(nodes []*store.Node) []*store.Node {
	seen := make(map[string]*store.Node, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n.ID]; !ok {
			order = append(order, n.ID)
		}
		seen[n.ID] = n
	}
	out := make([]*store.Node, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}

func dedupeEdges(edges []*store.Edge) []*store.Edge {
	type key struct {
		from, to string
		rel      store.Relation
	}
	seen := make(map[key]*store.Edge, len(edges))
	order := make([]key, 0, len(edges))
	for _, e := range edges {
		k := key{e.FromID, e.ToID, e.Relation}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = e
	}
	out := make([]*store.Edge, 0, len(order))
	for _, k := range order {
		out = append(out, seen[k])
	}
	return out
}
