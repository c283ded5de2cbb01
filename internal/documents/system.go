package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/pagination"
)

// System defines the related document operations.
// Implementations handle blob storage and database persistence.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]Document, error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Data(ctx context.Context, id uuid.UUID) (*Document, []byte, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceGenerated atomically swaps every generated document of cmd.ArticleID
	// for a new one. The owning article row is locked for the duration so that
	// overlapping calls serialize and always leave exactly one generated document.
	ReplaceGenerated(ctx context.Context, cmd CreateCommand) (*Document, error)

	// DeleteGenerated removes every generated document of an article and returns
	// how many were removed.
	DeleteGenerated(ctx context.Context, articleID uuid.UUID) (int, error)

	// DeleteByArticle removes every document of an article along with its blobs.
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) error
}
