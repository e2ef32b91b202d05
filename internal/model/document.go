package model

import "time"

// AccessTier governs who may read a document.
type AccessTier string

const (
	AccessPublic  AccessTier = "public"  // readable by every authenticated requester
	AccessPrivate AccessTier = "private" // readable by the author and elevated roles
	AccessRole    AccessTier = "role"    // readable by requesters whose role equals the author's
)

// Valid reports whether t is one of the three enumerated tiers.
func (t AccessTier) Valid() bool {
	switch t {
	case AccessPublic, AccessPrivate, AccessRole:
		return true
	}
	return false
}

// Document represents a row in the `documents` table.
//
// Fields:
//  ID         – primary key assigned by the store.
//  Title      – document title.
//  Content    – document body.
//  Access     – visibility tier (public, private or role).
//  Categories – free-form category label(s).
//  Tags       – free-form tag label(s).
//  CreatedBy  – users.id of the author; set once at creation.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Document struct {
	ID         int64      // documents.id
	Title      string     // documents.title
	Content    string     // documents.content
	Access     AccessTier // documents.access
	Categories string     // documents.categories
	Tags       string     // documents.tags
	CreatedBy  int64      // documents.created_by (references users.id)
	CreatedAt  time.Time  // documents.created_at
	UpdatedAt  time.Time  // documents.updated_at
}

// Projection is the subset of a document returned in API responses.
type Projection struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Access     AccessTier `json:"access"`
	Categories string     `json:"categories"`
	Tags       string     `json:"tags"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  int64      `json:"createdBy"`
}

// Project returns the API projection of d.
func (d *Document) Project() Projection {
	return Projection{
		ID:         d.ID,
		Title:      d.Title,
		Content:    d.Content,
		Access:     d.Access,
		Categories: d.Categories,
		Tags:       d.Tags,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}

// ProjectAll projects every document in docs, preserving order. A nil or
// empty input yields an empty, non-nil slice so it encodes as [].
func ProjectAll(docs []*Document) []Projection {
	out := make([]Projection, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Project())
	}
	return out
}

// DocumentPatch carries the fields of a partial update. A nil field is
// left unchanged.
type DocumentPatch struct {
	Title      *string
	Content    *string
	Access     *AccessTier
	Categories *string
	Tags       *string
}

// Apply merges the present fields of p into d.
func (p DocumentPatch) Apply(d *Document) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Access != nil {
		d.Access = *p.Access
	}
	if p.Categories != nil {
		d.Categories = *p.Categories
	}
	if p.Tags != nil {
		d.Tags = *p.Tags
	}
}

// Empty reports whether p changes nothing.
func (p DocumentPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Access == nil && p.Categories == nil && p.Tags == nil
}
