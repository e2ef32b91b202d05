// Package repository contains data access logic separated from HTTP handlers.
// This file holds the document queries: point lookups by primary key, the
// visibility-filtered listing and the author listing, in-place updates and
// terminal deletes.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

const documentColumns = "id, title, content, access, categories, tags, created_by, created_at, updated_at"

// DocumentRepo encapsulates all database queries related to documents.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo constructs a DocumentRepo with the provided DB handle.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	d := new(model.Document)
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Access, &d.Categories, &d.Tags,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts d and populates its ID and timestamps from the stored row.
func (r *DocumentRepo) Create(ctx context.Context, d *model.Document) error {
	now := time.Now().UTC().Truncate(time.Second)
	const qInsert = `INSERT INTO documents (title, content, access, categories, tags, created_by, created_at, updated_at)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		d.Title, d.Content, string(d.Access), d.Categories, d.Tags, d.CreatedBy, now, now)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	// Follow-up SELECT so callers receive exactly what was stored.
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*d = *stored
	return nil
}

// GetByID fetches a document by its ID. It returns ErrDocumentNotFound if
// no row is found.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	q := "SELECT " + documentColumns + " FROM documents WHERE id = ?"
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return d, nil
}

// ListVisible returns the documents that are public or authored by
// requesterID, ordered by id.
func (r *DocumentRepo) ListVisible(ctx context.Context, requesterID int64, limit, offset int) ([]*model.Document, error) {
	q := "SELECT " + documentColumns + ` FROM documents
	      WHERE access = ? OR created_by = ?
	      ORDER BY id LIMIT ? OFFSET ?`
	return r.list(ctx, q, string(model.AccessPublic), requesterID, limit, offset)
}

// ListByAuthor returns every document created by authorID, ordered by id.
func (r *DocumentRepo) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*model.Document, error) {
	q := "SELECT " + documentColumns + ` FROM documents
	      WHERE created_by = ?
	      ORDER BY id LIMIT ? OFFSET ?`
	return r.list(ctx, q, authorID, limit, offset)
}

func (r *DocumentRepo) list(ctx context.Context, q string, args ...any) ([]*model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []*model.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Update writes the mutable fields of d (title, content, access, categories,
// tags) and refreshes d from the stored row. CreatedBy is never written.
// ErrDocumentNotFound is returned if the row vanished in between.
func (r *DocumentRepo) Update(ctx context.Context, d *model.Document) error {
	const q = `UPDATE documents
	           SET title = ?, content = ?, access = ?, categories = ?, tags = ?, updated_at = ?
	           WHERE id = ?`
	now := time.Now().UTC().Truncate(time.Second)
	if _, err := r.db.ExecContext(ctx, q,
		d.Title, d.Content, string(d.Access), d.Categories, d.Tags, now, d.ID); err != nil {
		return fmt.Errorf("update document %d: %w", d.ID, err)
	}
	// RowsAffected is unreliable on MySQL when nothing changed, so re-read.
	stored, err := r.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	*d = *stored
	return nil
}

// Delete removes the document permanently. It returns ErrDocumentNotFound
// when no row was removed.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
