package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// UpsertNode inserts or replaces a node by its content-addressable ID. The
// ID is computed by the caller (internal/ids), so unlike an autoincrement
// scheme there is no post-insert ID recovery step: ON CONFLICT(id) DO
// UPDATE is sufficient on its own.
func (s *Store) UpsertNode(n *Node) error {
	_, err := s.q.Exec(`
		INSERT INTO nodes (id, kind, name, qualified_name, file_path, start_line, end_line, signature, docstring, visibility, decorators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, qualified_name=excluded.qualified_name,
			file_path=excluded.file_path, start_line=excluded.start_line, end_line=excluded.end_line,
			signature=excluded.signature, docstring=excluded.docstring, visibility=excluded.visibility,
			decorators=excluded.decorators`,
		n.ID, n.Kind, n.Name, n.QualifiedName, n.FilePath, n.StartLine, n.EndLine,
		n.Signature, n.Docstring, n.Visibility, marshalDecorators(n.Decorators))
	if err != nil {
		return fmt.Errorf("upsert node: %w", err)
	}
	return nil
}

const nodeColumns = "id, kind, name, qualified_name, file_path, start_line, end_line, signature, docstring, visibility, decorators"

// FindNodeByID finds a node by its ID.
func (s *Store) FindNodeByID(id string) (*Node, error) {
	row := s.q.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE id=?", id)
	return scanNode(row)
}

// FindNodeByQN finds a node by its qualified name. Qualified names are not
// unique across files (two files may each define a top-level f), so this
// returns the first match; callers that need every match use FindNodesByName.
func (s *Store) FindNodeByQN(qualifiedName string) (*Node, error) {
	row := s.q.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE qualified_name=?", qualifiedName)
	return scanNode(row)
}

// FindNodesByName finds every node with the given simple name, across files.
func (s *Store) FindNodesByName(name string) ([]*Node, error) {
	rows, err := s.q.Query("SELECT "+nodeColumns+" FROM nodes WHERE name=?", name)
	if err != nil {
		return nil, fmt.Errorf("find by name: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// FindNodesByFile finds all nodes in a given file, ordered by start_line.
func (s *Store) FindNodesByFile(filePath string) ([]*Node, error) {
	rows, err := s.q.Query("SELECT "+nodeColumns+" FROM nodes WHERE file_path=? ORDER BY start_line", filePath)
	if err != nil {
		return nil, fmt.Errorf("find by file: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// FindNodesByKind finds all nodes of a given kind.
func (s *Store) FindNodesByKind(kind Kind) ([]*Node, error) {
	rows, err := s.q.Query("SELECT "+nodeColumns+" FROM nodes WHERE kind=?", kind)
	if err != nil {
		return nil, fmt.Errorf("find by kind: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// AllNodes returns every node in the graph, ordered by file_path then
// start_line, for bulk consumers (the visualiser's graph read).
func (s *Store) AllNodes() ([]*Node, error) {
	rows, err := s.q.Query("SELECT " + nodeColumns + " FROM nodes ORDER BY file_path, start_line")
	if err != nil {
		return nil, fmt.Errorf("all nodes: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// CountNodes returns the number of nodes in the graph.
func (s *Store) CountNodes() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count)
	return count, err
}

// ClearFile deletes all nodes with the given file_path and all edges with
// either endpoint in that file. Callers run this inside WithTransaction
// together with the subsequent upsert batch, per the per-file refresh
// invariant.
func (s *Store) ClearFile(filePath string) error {
	if _, err := s.q.Exec(`
		DELETE FROM edges WHERE from_id IN (SELECT id FROM nodes WHERE file_path=?)
			OR to_id IN (SELECT id FROM nodes WHERE file_path=?)`, filePath, filePath); err != nil {
		return fmt.Errorf("clear file edges: %w", err)
	}
	if _, err := s.q.Exec("DELETE FROM nodes WHERE file_path=?", filePath); err != nil {
		return fmt.Errorf("clear file nodes: %w", err)
	}
	return nil
}

// ClearDir deletes all nodes whose file_path sits under dirPath, and all
// edges touching them. Used when a whole directory disappears, where the
// watcher only sees one delete event for the directory itself.
func (s *Store) ClearDir(dirPath string) error {
	prefix := strings.TrimSuffix(dirPath, "/") + "/%"
	if _, err := s.q.Exec(`
		DELETE FROM edges WHERE from_id IN (SELECT id FROM nodes WHERE file_path LIKE ?)
			OR to_id IN (SELECT id FROM nodes WHERE file_path LIKE ?)`, prefix, prefix); err != nil {
		return fmt.Errorf("clear dir edges: %w", err)
	}
	if _, err := s.q.Exec("DELETE FROM nodes WHERE file_path LIKE ?", prefix); err != nil {
		return fmt.Errorf("clear dir nodes: %w", err)
	}
	return nil
}

// DeleteOrphanPlaceholders removes placeholder (external) nodes with no
// remaining edges in either direction, per the placeholder lifecycle rule.
// A placeholder can sit on either end of an edge (an unresolved callee is a
// to-endpoint; an unresolved method receiver is a from-endpoint of a
// defines edge), so both directions keep it alive.
func (s *Store) DeleteOrphanPlaceholders() error {
	_, err := s.q.Exec(`
		DELETE FROM nodes WHERE file_path=?
			AND id NOT IN (SELECT to_id FROM edges)
			AND id NOT IN (SELECT from_id FROM edges)`, ExternalFile)
	return err
}

// FindConcreteNodeByQN finds a non-placeholder node by qualified name, used
// by the placeholder-rewrite pass: a placeholder shares its qualified name
// with the concrete definition it stands in for, so the lookup must not
// match the placeholder itself.
func (s *Store) FindConcreteNodeByQN(qualifiedName string) (*Node, error) {
	row := s.q.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE qualified_name=? AND file_path<>? LIMIT 1",
		qualifiedName, ExternalFile)
	return scanNode(row)
}

func scanNode(row interface{ Scan(dest ...any) error }) (*Node, error) {
	var n Node
	var decs string
	err := row.Scan(&n.ID, &n.Kind, &n.Name, &n.QualifiedName, &n.FilePath, &n.StartLine, &n.EndLine,
		&n.Signature, &n.Docstring, &n.Visibility, &decs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	n.Decorators = unmarshalDecorators(decs)
	return &n, nil
}

func scanNodes(rows *sql.Rows) ([]*Node, error) {
	var result []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// Formula-derived batch size: SQLite has a 999 bind variable limit.
const numNodeCols = 11
const nodesBatchSize = 999 / numNodeCols // = 90

// UpsertNodeBatch inserts or updates multiple nodes in batched multi-row INSERTs.
func (s *Store) UpsertNodeBatch(nodes []*Node) error {
	for i := 0; i < len(nodes); i += nodesBatchSize {
		end := i + nodesBatchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		if err := s.upsertNodeChunk(nodes[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertNodeChunk(batch []*Node) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO nodes (" + nodeColumns + ") VALUES ")

	args := make([]any, 0, len(batch)*numNodeCols)
	for i, n := range batch {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("(?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args, n.ID, n.Kind, n.Name, n.QualifiedName, n.FilePath, n.StartLine, n.EndLine,
			n.Signature, n.Docstring, n.Visibility, marshalDecorators(n.Decorators))
	}
	sb.WriteString(` ON CONFLICT(id) DO UPDATE SET
		kind=excluded.kind, name=excluded.name, qualified_name=excluded.qualified_name,
		file_path=excluded.file_path, start_line=excluded.start_line, end_line=excluded.end_line,
		signature=excluded.signature, docstring=excluded.docstring, visibility=excluded.visibility,
		decorators=excluded.decorators`)

	if _, err := s.q.Exec(sb.String(), args...); err != nil {
		return fmt.Errorf("upsert node batch: %w", err)
	}
	return nil
}
