package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/grammarkit/ebnfstudio"
)

// GrammarRecord is one submitted grammar and the analysis last run over it.
type GrammarRecord struct {
	ID       uuid.UUID
	Name     string
	Source   string
	Summary  ebnfstudio.Summary
	Created  time.Time
	Modified time.Time
}

// GrammarStore persists submitted grammars and their analysis summaries.
type GrammarStore interface {
	Create(ctx context.Context, name, source string, sum ebnfstudio.Summary) (GrammarRecord, error)
	Get(ctx context.Context, id uuid.UUID) (GrammarRecord, error)
	GetAll(ctx context.Context) ([]GrammarRecord, error)
	Update(ctx context.Context, id uuid.UUID, source string, sum ebnfstudio.Summary) (GrammarRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (GrammarRecord, error)
	Close() error
}

// MemStore is an in-memory GrammarStore, the default when no --db flag names
// a sqlite path.
type MemStore struct {
	mu   sync.Mutex
	recs map[uuid.UUID]GrammarRecord
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{recs: make(map[uuid.UUID]GrammarRecord)}
}

func (s *MemStore) Create(ctx context.Context, name, source string, sum ebnfstudio.Summary) (GrammarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.NewRandom()
	if err != nil {
		return GrammarRecord{}, fmt.Errorf("could not generate ID: %w", err)
	}
	now := time.Now()
	rec := GrammarRecord{ID: id, Name: name, Source: source, Summary: sum, Created: now, Modified: now}
	s.recs[id] = rec
	return rec, nil
}

func (s *MemStore) Get(ctx context.Context, id uuid.UUID) (GrammarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return GrammarRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemStore) GetAll(ctx context.Context) ([]GrammarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]GrammarRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		all = append(all, rec)
	}
	return all, nil
}

func (s *MemStore) Update(ctx context.Context, id uuid.UUID, source string, sum ebnfstudio.Summary) (GrammarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return GrammarRecord{}, ErrNotFound
	}
	rec.Source = source
	rec.Summary = sum
	rec.Modified = time.Now()
	s.recs[id] = rec
	return rec, nil
}

func (s *MemStore) Delete(ctx context.Context, id uuid.UUID) (GrammarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return GrammarRecord{}, ErrNotFound
	}
	delete(s.recs, id)
	return rec, nil
}

func (s *MemStore) Close() error { return nil }

// SqliteStore is a modernc.org/sqlite-backed GrammarStore.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (creating if needed) the sqlite database at file and
// ensures its schema exists.
func NewSqliteStore(file string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}
	st := &SqliteStore{db: db}
	return st, st.init()
}

func (st *SqliteStore) init() error {
	_, err := st.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		summary TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (st *SqliteStore) Create(ctx context.Context, name, source string, sum ebnfstudio.Summary) (GrammarRecord, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return GrammarRecord{}, fmt.Errorf("could not generate ID: %w", err)
	}
	sumJSON, err := json.Marshal(sum)
	if err != nil {
		return GrammarRecord{}, fmt.Errorf("marshal summary: %w", err)
	}

	now := time.Now()
	_, err = st.db.ExecContext(ctx,
		`INSERT INTO grammars (id, name, source, summary, created, modified) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), name, source, string(sumJSON), now.Unix(), now.Unix(),
	)
	if err != nil {
		return GrammarRecord{}, wrapDBError(err)
	}
	return st.Get(ctx, id)
}

func (st *SqliteStore) Get(ctx context.Context, id uuid.UUID) (GrammarRecord, error) {
	row := st.db.QueryRowContext(ctx,
		`SELECT name, source, summary, created, modified FROM grammars WHERE id = ?;`, id.String())
	return scanGrammarRow(id, row.Scan)
}

func (st *SqliteStore) GetAll(ctx context.Context) ([]GrammarRecord, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT id, name, source, summary, created, modified FROM grammars;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []GrammarRecord
	for rows.Next() {
		var idStr, name, source, sumJSON string
		var created, modified int64
		if err := rows.Scan(&idStr, &name, &source, &sumJSON, &created, &modified); err != nil {
			return nil, wrapDBError(err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("stored id %q is invalid: %w", idStr, err)
		}
		rec, err := buildRecord(id, name, source, sumJSON, created, modified)
		if err != nil {
			return nil, err
		}
		all = append(all, rec)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (st *SqliteStore) Update(ctx context.Context, id uuid.UUID, source string, sum ebnfstudio.Summary) (GrammarRecord, error) {
	sumJSON, err := json.Marshal(sum)
	if err != nil {
		return GrammarRecord{}, fmt.Errorf("marshal summary: %w", err)
	}
	res, err := st.db.ExecContext(ctx,
		`UPDATE grammars SET source=?, summary=?, modified=? WHERE id=?;`,
		source, string(sumJSON), time.Now().Unix(), id.String(),
	)
	if err != nil {
		return GrammarRecord{}, wrapDBError(err)
	}
	if n, _ := res.RowsAffected(); n < 1 {
		return GrammarRecord{}, ErrNotFound
	}
	return st.Get(ctx, id)
}

func (st *SqliteStore) Delete(ctx context.Context, id uuid.UUID) (GrammarRecord, error) {
	rec, err := st.Get(ctx, id)
	if err != nil {
		return rec, err
	}
	res, err := st.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, id.String())
	if err != nil {
		return rec, wrapDBError(err)
	}
	if n, _ := res.RowsAffected(); n < 1 {
		return rec, ErrNotFound
	}
	return rec, nil
}

func (st *SqliteStore) Close() error {
	return st.db.Close()
}

func scanGrammarRow(id uuid.UUID, scan func(dest ...any) error) (GrammarRecord, error) {
	var name, source, sumJSON string
	var created, modified int64
	if err := scan(&name, &source, &sumJSON, &created, &modified); err != nil {
		return GrammarRecord{}, wrapDBError(err)
	}
	return buildRecord(id, name, source, sumJSON, created, modified)
}

func buildRecord(id uuid.UUID, name, source, sumJSON string, created, modified int64) (GrammarRecord, error) {
	var sum ebnfstudio.Summary
	if err := json.Unmarshal([]byte(sumJSON), &sum); err != nil {
		return GrammarRecord{}, fmt.Errorf("stored summary is invalid: %w", err)
	}
	return GrammarRecord{
		ID:       id,
		Name:     name,
		Source:   source,
		Summary:  sum,
		Created:  time.Unix(created, 0),
		Modified: time.Unix(modified, 0),
	}, nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return ErrAlreadyExists
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
