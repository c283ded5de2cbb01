package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/internal/tasks"
	"github.com/JaimeStill/content-lab/pkg/auth"
)

//go:embed seeds/*.yaml
var seedFiles embed.FS

func init() {
	registerSeeder(&ContentSeeder{})
}

// ContentSeedData is the YAML layout of a content seed file.
type ContentSeedData struct {
	Articles []ArticleSeed `yaml:"articles"`
}

// ArticleSeed is one article and the review tasks attached to it.
type ArticleSeed struct {
	ID      uuid.UUID       `yaml:"id"`
	Title   string          `yaml:"title"`
	Type    articles.Type   `yaml:"type"`
	Status  articles.Status `yaml:"status"`
	Author  string          `yaml:"author"`
	Content string          `yaml:"content"`
	Tasks   []TaskSeed      `yaml:"tasks"`
}

type TaskSeed struct {
	ID          uuid.UUID    `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Status      tasks.Status `yaml:"status"`
}

// ContentSeeder writes sample articles and tasks. Rows are upserted by id, and
// each one gets an outbox sync event so the service builds its index entry
// and PDF on the next relay pass.
type ContentSeeder struct {
	file string
}

func (s *ContentSeeder) Name() string {
	return "content"
}

func (s *ContentSeeder) Description() string {
	return "Seeds sample articles with their review tasks"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *ContentSeeder) SetFile(path string) {
	s.file = path
}

func (s *ContentSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	for _, a := range data.Articles {
		if err := validateArticle(a); err != nil {
			return err
		}
		if err := saveArticle(ctx, tx, a); err != nil {
			return fmt.Errorf("save article %q: %w", a.Title, err)
		}
		if err := enqueue(ctx, tx, articles.Aggregate, a.ID); err != nil {
			return err
		}

		for _, t := range a.Tasks {
			if err := saveTask(ctx, tx, a.ID, a.Author, t); err != nil {
				return fmt.Errorf("save task %q: %w", t.Title, err)
			}
			if err := enqueue(ctx, tx, tasks.Aggregate, t.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ContentSeeder) load() (*ContentSeedData, error) {
	var (
		content []byte
		err     error
	)

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/content.yaml")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data ContentSeedData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func validateArticle(a ArticleSeed) error {
	if a.ID == uuid.Nil || a.Title == "" {
		return fmt.Errorf("seed article requires id and title")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("seed article %q: unknown type %q", a.Title, a.Type)
	}
	if a.Status != "" && !a.Status.Valid() {
		return fmt.Errorf("seed article %q: unknown status %q", a.Title, a.Status)
	}
	for _, t := range a.Tasks {
		if t.ID == uuid.Nil || t.Title == "" {
			return fmt.Errorf("seed task of %q requires id and title", a.Title)
		}
		if t.Status != "" && !t.Status.Valid() {
			return fmt.Errorf("seed task %q: unknown status %q", t.Title, t.Status)
		}
	}
	return nil
}

func saveArticle(ctx context.Context, tx *sql.Tx, a ArticleSeed) error {
	const query = `
		INSERT INTO articles (id, title, content, status, type, created_by, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			last_modified_by = EXCLUDED.last_modified_by,
			last_modified_at = NOW()`

	status := a.Status
	if status == "" {
		status = articles.StatusDraft
	}

	_, err := tx.ExecContext(ctx, query, a.ID, a.Title, a.Content, status, a.Type, author(a.Author))
	return err
}

func saveTask(ctx context.Context, tx *sql.Tx, articleID uuid.UUID, by string, t TaskSeed) error {
	const query = `
		INSERT INTO tasks (id, title, description, status, article_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			article_id = EXCLUDED.article_id,
			updated_at = NOW()`

	status := t.Status
	if status == "" {
		status = tasks.StatusOpen
	}

	_, err := tx.ExecContext(ctx, query, t.ID, t.Title, t.Description, status, articleID, author(by))
	return err
}

func enqueue(ctx context.Context, tx *sql.Tx, aggregate string, id uuid.UUID) error {
	const query = `
		INSERT INTO outbox_events (id, aggregate, aggregate_id, kind)
		VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(ctx, query, uuid.New(), aggregate, id, outbox.KindSync); err != nil {
		return fmt.Errorf("enqueue %s %s: %w", aggregate, id, err)
	}
	return nil
}

func author(login string) string {
	if login == "" {
		return auth.System
	}
	return login
}
