package store

import (
	"database/sql"
	"fmt"
	"strings"
)

const edgeColumns = "id, from_id, to_id, relation, site_line"

// InsertEdge inserts an edge. A duplicate (from_id, to_id, relation) is a
// no-op that refreshes site_line, matching the spec's "duplicate insert is
// a no-op" rule.
func (s *Store) InsertEdge(e *Edge) error {
	_, err := s.q.Exec(`
		INSERT INTO edges (from_id, to_id, relation, site_line)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_id, to_id, relation) DO UPDATE SET site_line=excluded.site_line`,
		e.FromID, e.ToID, e.Relation, e.SiteLine)
	if err != nil {
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

// InsertEdgeChecked inserts an edge only when both endpoints exist as
// nodes, silently skipping it otherwise. Used for cross-file edges, whose
// far endpoint may belong to a file that is not part of the current commit
// (a stale single-path re-index, or a file whose extraction failed).
func (s *Store) InsertEdgeChecked(e *Edge) error {
	_, err := s.q.Exec(`
		INSERT INTO edges (from_id, to_id, relation, site_line)
		SELECT ?, ?, ?, ?
		WHERE EXISTS(SELECT 1 FROM nodes WHERE id=?) AND EXISTS(SELECT 1 FROM nodes WHERE id=?)
		ON CONFLICT(from_id, to_id, relation) DO UPDATE SET site_line=excluded.site_line`,
		e.FromID, e.ToID, e.Relation, e.SiteLine, e.FromID, e.ToID)
	if err != nil {
		return fmt.Errorf("insert edge checked: %w", err)
	}
	return nil
}

// EdgesFrom returns edges originating at id, optionally filtered by relation.
func (s *Store) EdgesFrom(id string, relation Relation) ([]*Edge, error) {
	if relation == "" {
		rows, err := s.q.Query("SELECT "+edgeColumns+" FROM edges WHERE from_id=?", id)
		if err != nil {
			return nil, fmt.Errorf("edges from: %w", err)
		}
		defer rows.Close()
		return scanEdges(rows)
	}
	rows, err := s.q.Query("SELECT "+edgeColumns+" FROM edges WHERE from_id=? AND relation=?", id, relation)
	if err != nil {
		return nil, fmt.Errorf("edges from: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// EdgesTo returns edges terminating at id, optionally filtered by relation.
func (s *Store) EdgesTo(id string, relation Relation) ([]*Edge, error) {
	if relation == "" {
		rows, err := s.q.Query("SELECT "+edgeColumns+" FROM edges WHERE to_id=?", id)
		if err != nil {
			return nil, fmt.Errorf("edges to: %w", err)
		}
		defer rows.Close()
		return scanEdges(rows)
	}
	rows, err := s.q.Query("SELECT "+edgeColumns+" FROM edges WHERE to_id=? AND relation=?", id, relation)
	if err != nil {
		return nil, fmt.Errorf("edges to: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// EdgesByRelation returns all edges of a given relation.
func (s *Store) EdgesByRelation(relation Relation) ([]*Edge, error) {
	rows, err := s.q.Query("SELECT "+edgeColumns+" FROM edges WHERE relation=?", relation)
	if err != nil {
		return nil, fmt.Errorf("edges by relation: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// AllEdges returns every edge in the graph, in insertion order.
func (s *Store) AllEdges() ([]*Edge, error) {
	rows, err := s.q.Query("SELECT " + edgeColumns + " FROM edges ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("all edges: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// CountEdges returns the number of edges in the graph.
func (s *Store) CountEdges() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}

// RewriteEdgeTarget points every edge currently aimed at fromPlaceholder to
// toConcrete instead, used by the resolver when a placeholder's qualified
// name turns out to match a concrete node discovered later in the batch.
func (s *Store) RewriteEdgeTarget(fromPlaceholder, toConcrete string) error {
	_, err := s.q.Exec(`UPDATE OR IGNORE edges SET to_id=? WHERE to_id=?`, toConcrete, fromPlaceholder)
	if err != nil {
		return fmt.Errorf("rewrite edge target: %w", err)
	}
	// Drop any now-duplicate rows the rewrite collided with (same
	// from_id/to_id/relation already present from a different file).
	_, err = s.q.Exec(`DELETE FROM edges WHERE to_id=?`, fromPlaceholder)
	return err
}

func scanEdges(rows *sql.Rows) ([]*Edge, error) {
	var result []*Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Relation, &e.SiteLine); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// Formula-derived batch size: SQLite has a 999 bind variable limit.
const numEdgeCols = 4
const edgesBatchSize = 999 / numEdgeCols // = 249

// InsertEdgeBatch inserts multiple edges in batched multi-row INSERTs.
func (s *Store) InsertEdgeBatch(edges []*Edge) error {
	for i := 0; i < len(edges); i += edgesBatchSize {
		end := i + edgesBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		if err := s.insertEdgeChunk(edges[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertEdgeChunk(batch []*Edge) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO edges (from_id, to_id, relation, site_line) VALUES ")

	args := make([]any, 0, len(batch)*numEdgeCols)
	for i, e := range batch {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("(?,?,?,?)")
		args = append(args, e.FromID, e.ToID, e.Relation, e.SiteLine)
	}
	sb.WriteString(` ON CONFLICT(from_id, to_id, relation) DO UPDATE SET site_line=excluded.site_line`)

	if _, err := s.q.Exec(sb.String(), args...); err != nil {
		return fmt.Errorf("insert edge batch: %w", err)
	}
	return nil
}
