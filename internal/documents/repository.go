package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/render"
	"github.com/JaimeStill/content-lab/pkg/repository"
	"github.com/JaimeStill/content-lab/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository with database and blob storage integration.
func New(db *sql.DB, storage storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]Document, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ArticleId", articleID).
		BuildAll()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query article documents: %w", err)
	}
	return docs, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func (r *repo) Data(ctx context.Context, id uuid.UUID) (*Document, []byte, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Error("document blob missing", "id", id, "storage_key", doc.StorageKey)
		}
		return nil, nil, fmt.Errorf("retrieve document data: %w", err)
	}
	return doc, data, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if cmd.Name == "" {
		cmd.Name = cmd.Filename
	}
	if err := validateName(cmd.Name); err != nil {
		return nil, err
	}

	id := uuid.New()
	key := buildStorageKey(cmd.ArticleID, id, cmd.Filename)

	if err := r.storage.Store(ctx, key, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return r.insert(ctx, tx, id, key, cmd)
	})
	if err != nil {
		r.discard(ctx, key)
		return nil, mapWriteError(err)
	}

	r.logger.Info("document created", "id", doc.ID, "article_id", doc.ArticleID, "name", doc.Name)
	return &doc, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error) {
	if err := validateName(cmd.Name); err != nil {
		return nil, err
	}

	q := `UPDATE related_documents SET name = $1, updated_at = NOW()
		WHERE id = $2 ` + returning

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, id}, scanDocument)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document updated", "id", doc.ID, "name", doc.Name)
	return &doc, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	q := `DELETE FROM related_documents WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.discard(ctx, doc.StorageKey)
	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) ReplaceGenerated(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if !IsGeneratedName(cmd.Name) {
		return nil, fmt.Errorf("generated document name %q lacks prefix %q", cmd.Name, GeneratedPrefix)
	}

	id := uuid.New()
	key := buildStorageKey(cmd.ArticleID, id, cmd.Filename)

	if err := r.storage.Store(ctx, key, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	type replaced struct {
		doc   Document
		stale []string
	}

	out, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (replaced, error) {
		if err := lockArticle(ctx, tx, cmd.ArticleID); err != nil {
			return replaced{}, err
		}

		stale, err := deleteGenerated(ctx, tx, cmd.ArticleID)
		if err != nil {
			return replaced{}, err
		}

		doc, err := r.insert(ctx, tx, id, key, cmd)
		if err != nil {
			return replaced{}, err
		}
		return replaced{doc: doc, stale: stale}, nil
	})
	if err != nil {
		r.discard(ctx, key)
		return nil, mapWriteError(err)
	}

	for _, k := range out.stale {
		r.discard(ctx, k)
	}

	r.logger.Info("generated document replaced",
		"article_id", cmd.ArticleID,
		"id", out.doc.ID,
		"removed", len(out.stale),
	)
	return &out.doc, nil
}

func (r *repo) DeleteGenerated(ctx context.Context, articleID uuid.UUID) (int, error) {
	stale, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		if err := lockArticle(ctx, tx, articleID); err != nil {
			if errors.Is(err, ErrArticleNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return deleteGenerated(ctx, tx, articleID)
	})
	if err != nil {
		return 0, fmt.Errorf("delete generated documents: %w", err)
	}

	for _, k := range stale {
		r.discard(ctx, k)
	}

	if len(stale) > 0 {
		r.logger.Info("generated documents removed", "article_id", articleID, "count", len(stale))
	}
	return len(stale), nil
}

func (r *repo) DeleteByArticle(ctx context.Context, articleID uuid.UUID) error {
	q := `DELETE FROM related_documents WHERE article_id = $1`
	res, err := r.db.ExecContext(ctx, q, articleID)
	if err != nil {
		return fmt.Errorf("delete article documents: %w", err)
	}

	if err := r.storage.DeletePrefix(ctx, articlePrefix(articleID)); err != nil {
		return fmt.Errorf("delete article blobs: %w", err)
	}

	n, _ := res.RowsAffected()
	r.logger.Info("article documents removed", "article_id", articleID, "rows", n)
	return nil
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, id uuid.UUID, key string, cmd CreateCommand) (Document, error) {
	q := `INSERT INTO related_documents(id, article_id, name, filename, content_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ` + returning

	return repository.QueryOne(ctx, tx, q, []any{
		id,
		cmd.ArticleID,
		cmd.Name,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		r.pageCount(cmd),
		key,
	}, scanDocument)
}

func (r *repo) pageCount(cmd CreateCommand) *int {
	if cmd.PageCount != nil || cmd.ContentType != ContentTypePDF {
		return cmd.PageCount
	}
	n, err := render.PageCount(cmd.Data)
	if err != nil {
		r.logger.Warn("failed to extract pdf page count", "filename", cmd.Filename, "error", err)
		return nil
	}
	return &n
}

func (r *repo) discard(ctx context.Context, key string) {
	if err := r.storage.Delete(ctx, key); err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
	}
}

func lockArticle(ctx context.Context, tx *sql.Tx, articleID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM articles WHERE id = $1 FOR UPDATE`, articleID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrArticleNotFound
	}
	return err
}

func deleteGenerated(ctx context.Context, tx *sql.Tx, articleID uuid.UUID) ([]string, error) {
	q := `DELETE FROM related_documents
		WHERE article_id = $1 AND starts_with(name, $2)
		RETURNING storage_key`

	return repository.QueryMany(ctx, tx, q, []any{articleID, GeneratedPrefix}, func(s repository.Scanner) (string, error) {
		var key string
		err := s.Scan(&key)
		return key, err
	})
}

func mapWriteError(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return ErrArticleNotFound
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if IsGeneratedName(name) {
		return ErrReservedName
	}
	return nil
}

func articlePrefix(articleID uuid.UUID) string {
	return "documents/" + articleID.String()
}

func buildStorageKey(articleID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", articlePrefix(articleID), id.String(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
