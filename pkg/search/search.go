// Package search maintains a full-text index of entity projections in a SQLite
// FTS4 database that lives apart from the primary store. Each record belongs to a
// collection ("articles", "tasks") and carries a title and a plain-text body.
package search

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/JaimeStill/content-lab/pkg/lifecycle"
)

const driverName = "sqlite3_search"

//go:embed migrations/*.sql
var migrations embed.FS

// Column weights for the rank function, in table column order:
// collection, entity_id, title, body.
var columnWeights = []float64{0, 0, 2.0, 1.0}

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("rank", rank, true)
		},
	})
}

// Document is one indexed record.
type Document struct {
	ID    uuid.UUID
	Title string
	Body  string
}

// Result is one page of ranked matches.
type Result struct {
	IDs   []uuid.UUID
	Total int
}

// Index is the full-text index.
type Index interface {
	Upsert(ctx context.Context, collection string, doc Document) error
	Remove(ctx context.Context, collection string, id uuid.UUID) error
	Search(ctx context.Context, collection, query string, page, pageSize int) (*Result, error)
	Start(lc *lifecycle.Coordinator) error
}

type index struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// New opens the index database. Schema migrations run during Start.
func New(cfg *Config, logger *slog.Logger) (Index, error) {
	db, err := sql.Open(driverName, cfg.Path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &index{
		db:     db,
		path:   cfg.Path,
		logger: logger.With("system", "search"),
	}, nil
}

func (x *index) Start(lc *lifecycle.Coordinator) error {
	x.logger.Info("starting search index", "path", x.path)

	if dir := filepath.Dir(x.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}

	if err := x.migrate(); err != nil {
		return err
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := x.db.Close(); err != nil {
			x.logger.Error("search index close failed", "error", err)
			return
		}
		x.logger.Info("search index closed")
	})

	return nil
}

func (x *index) migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load index migrations: %w", err)
	}

	driver, err := msqlite.WithInstance(x.db, &msqlite.Config{})
	if err != nil {
		return fmt.Errorf("index migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("index migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate index: %w", err)
	}
	return nil
}

// Upsert replaces the record for doc.ID in collection.
func (x *index) Upsert(ctx context.Context, collection string, doc Document) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index transaction: %w", err)
	}
	defer tx.Rollback()

	del, delArgs, err := sq.Delete("entries").
		Where(sq.Eq{"collection": collection, "entity_id": doc.ID.String()}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear index entry: %w", err)
	}

	ins, insArgs, err := sq.Insert("entries").
		Columns("collection", "entity_id", "title", "body").
		Values(collection, doc.ID.String(), doc.Title, doc.Body).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, ins, insArgs...); err != nil {
		return fmt.Errorf("write index entry: %w", err)
	}

	return tx.Commit()
}

// Remove deletes the record for id. Missing records are not an error.
func (x *index) Remove(ctx context.Context, collection string, id uuid.UUID) error {
	q, args, err := sq.Delete("entries").
		Where(sq.Eq{"collection": collection, "entity_id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := x.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("remove index entry: %w", err)
	}
	return nil
}

// Search returns the ids of records in collection matching every term of query,
// best match first. A query without terms matches nothing.
func (x *index) Search(ctx context.Context, collection, query string, page, pageSize int) (*Result, error) {
	match := MatchExpression(query)
	if match == "" {
		return &Result{IDs: []uuid.UUID{}}, nil
	}
	if page < 1 {
		page = 1
	}

	where := sq.And{
		sq.Expr("entries MATCH ?", match),
		sq.Eq{"collection": collection},
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("entries").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var total int
	if err := x.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}

	pageSQL, pageArgs, err := sq.Select("entity_id", "rank(matchinfo(entries, 'pcx')) AS score").
		From("entries").
		Where(where).
		OrderBy("score DESC", "rowid DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := x.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, pageSize)
	for rows.Next() {
		var raw string
		var score float64
		if err := rows.Scan(&raw, &score); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			x.logger.Warn("skipping malformed index id", "id", raw)
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{IDs: ids, Total: total}, nil
}

// MatchExpression converts free text into an FTS expression that requires every
// term as a whole token. Only letters and digits survive and each term is quoted,
// so user input can never inject FTS operators or column filters.
func MatchExpression(query string) string {
	terms := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, t := range terms {
		terms[i] = `"` + t + `"`
	}
	return strings.Join(terms, " ")
}

// rank scores a row from matchinfo 'pcx' output: for each phrase and column, the
// share of all hits for that phrase that fall in this row, weighted per column.
func rank(info []byte) float64 {
	if len(info) < 8 {
		return 0
	}
	ints := make([]uint32, len(info)/4)
	for i := range ints {
		ints[i] = binary.NativeEndian.Uint32(info[i*4:])
	}

	phrases, cols := int(ints[0]), int(ints[1])
	var score float64
	for p := 0; p < phrases; p++ {
		for c := 0; c < cols && c < len(columnWeights); c++ {
			base := 2 + 3*(p*cols+c)
			if base+1 >= len(ints) {
				return score
			}
			hitsRow, hitsAll := ints[base], ints[base+1]
			if hitsRow > 0 && hitsAll > 0 {
				score += float64(hitsRow) / float64(hitsAll) * columnWeights[c]
			}
		}
	}
	return score
}
