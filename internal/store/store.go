// Package store implements the graph store: a SQLite-backed relational
// table pair (nodes, edges) reached through a narrow upsert/clear/query API.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection holding one project's graph.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// Kind enumerates the node kinds the data model allows.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
	KindImpl      Kind = "impl"
	KindModule    Kind = "module"
	KindVariable  Kind = "variable"
)

// Visibility enumerates the node visibilities the data model allows.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityExported  Visibility = "exported"
)

// Relation enumerates the edge relations the data model allows.
type Relation string

const (
	RelationDefines    Relation = "defines"
	RelationCalls      Relation = "calls"
	RelationInherits   Relation = "inherits"
	RelationImplements Relation = "implements"
	RelationImports    Relation = "imports"
	RelationReferences Relation = "references"
)

// ExternalFile is the file_path recorded on placeholder nodes.
const ExternalFile = "<external>"

// Node is a definable entity in source, keyed by a content-addressable ID.
type Node struct {
	ID            string
	Name          string
	QualifiedName string
	Kind          Kind
	FilePath      string
	StartLine     int
	EndLine       int
	Signature     string
	Docstring     string
	Decorators    []string
	Visibility    Visibility
}

// Edge is a directed relation between two node IDs.
type Edge struct {
	ID       int64
	FromID   string
	ToID     string
	Relation Relation
	SiteLine int
}

// Open opens or creates the graph database under the project's
// vibegraph_context directory, per the persistent-state contract.
func Open(projectRoot string) (*Store, error) {
	dir := filepath.Join(projectRoot, "vibegraph_context")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir context dir: %w", err)
	}
	return OpenPath(filepath.Join(dir, "graph.db"))
}

// OpenPath opens a SQLite database at the given path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction. The
// callback receives a transaction-scoped Store; the receiver's q field is
// never mutated, so concurrent read-only callers (using s.q == s.db) are
// unaffected while a writer holds a transaction open.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaDDL)
	return err
}

func marshalDecorators(decs []string) string {
	if len(decs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(decs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalDecorators(data string) []string {
	if data == "" {
		return nil
	}
	var decs []string
	if err := json.Unmarshal([]byte(data), &decs); err != nil {
		return nil
	}
	return decs
}
