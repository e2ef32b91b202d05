// Package service sequences validation, store lookups, access decisions and
// mutations for every document and user operation. It knows nothing about
// HTTP; handlers translate its *access.Error results at the boundary.
package service

import (
	"context"

	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/queue"
	"github.com/mikey2020/docs-cabinet-cp2/internal/repository"
)

// DocumentStore is the persistence gateway for documents. Lookups of a
// missing row return repository.ErrDocumentNotFound.
type DocumentStore interface {
	Create(ctx context.Context, d *model.Document) error
	GetByID(ctx context.Context, id int64) (*model.Document, error)
	ListVisible(ctx context.Context, requesterID int64, limit, offset int) ([]*model.Document, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*model.Document, error)
	Update(ctx context.Context, d *model.Document) error
	Delete(ctx context.Context, id int64) error
}

// UserStore is the persistence gateway for users. Lookups of a missing row
// return repository.ErrUserNotFound.
type UserStore interface {
	Create(ctx context.Context, u *model.User, password string, cost int) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// EventPublisher delivers document lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.DocumentEvent) error
}

var (
	_ DocumentStore  = (*repository.DocumentRepo)(nil)
	_ DocumentStore  = (*repository.MemoryDocuments)(nil)
	_ UserStore      = (*repository.UserRepo)(nil)
	_ UserStore      = (*repository.MemoryUsers)(nil)
	_ EventPublisher = (*queue.Publisher)(nil)
)
