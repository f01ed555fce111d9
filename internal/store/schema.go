package store

import "fmt"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
	id             TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	name           TEXT NOT NULL,
	qualified_name TEXT NOT NULL,
	file_path      TEXT NOT NULL DEFAULT '',
	start_line     INTEGER NOT NULL DEFAULT 0,
	end_line       INTEGER NOT NULL DEFAULT 0,
	signature      TEXT NOT NULL DEFAULT '',
	docstring      TEXT NOT NULL DEFAULT '',
	visibility     TEXT NOT NULL DEFAULT 'public',
	decorators     TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);

CREATE TABLE IF NOT EXISTS edges (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	from_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	to_id      TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	relation   TEXT NOT NULL,
	site_line  INTEGER NOT NULL DEFAULT 0,
	UNIQUE(from_id, to_id, relation)
);

CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id, relation);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id, relation);
`

// SchemaInfo is an introspection snapshot of the graph's shape, printed as
// the reindex command's post-index summary rather than exposed as a
// query-engine operation in its own right.
type SchemaInfo struct {
	NodeKinds  []KindCount
	EdgeTypes  []RelationCount
	NodeCount  int
	EdgeCount  int
}

// KindCount is a node kind with its count.
type KindCount struct {
	Kind  Kind
	Count int
}

// RelationCount is an edge relation with its count.
type RelationCount struct {
	Relation Relation
	Count    int
}

// Schema returns a summary of the node kinds and edge relations in the graph.
func (s *Store) Schema() (*SchemaInfo, error) {
	info := &SchemaInfo{}

	rows, err := s.q.Query("SELECT kind, COUNT(*) FROM nodes GROUP BY kind ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, fmt.Errorf("schema kinds: %w", err)
	}
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		info.NodeCount += kc.Count
		info.NodeKinds = append(info.NodeKinds, kc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows2, err := s.q.Query("SELECT relation, COUNT(*) FROM edges GROUP BY relation ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, fmt.Errorf("schema relations: %w", err)
	}
	for rows2.Next() {
		var rc RelationCount
		if err := rows2.Scan(&rc.Relation, &rc.Count); err != nil {
			rows2.Close()
			return nil, err
		}
		info.EdgeCount += rc.Count
		info.EdgeTypes = append(info.EdgeTypes, rc)
	}
	rows2.Close()
	return info, rows2.Err()
}
