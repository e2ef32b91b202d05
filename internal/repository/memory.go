package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/utils"
)

// MemoryDocuments is an in-memory document store with the same contract as
// DocumentRepo. Useful for testing and development.
type MemoryDocuments struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[int64]model.Document
}

// NewMemoryDocuments creates an empty in-memory document store.
func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{docs: make(map[int64]model.Document)}
}

func (m *MemoryDocuments) Create(_ context.Context, d *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	d.ID = m.nextID
	d.CreatedAt, d.UpdatedAt = now, now
	m.docs[d.ID] = *d
	return nil
}

// Put stores d as-is, keeping its ID. Seeds fixtures that the API would
// refuse to create, such as rows with an unknown access tier.
func (m *MemoryDocuments) Put(d model.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[d.ID] = d
	if d.ID > m.nextID {
		m.nextID = d.ID
	}
}

func (m *MemoryDocuments) GetByID(_ context.Context, id int64) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return &d, nil
}

func (m *MemoryDocuments) ListVisible(_ context.Context, requesterID int64, limit, offset int) ([]*model.Document, error) {
	return m.filter(limit, offset, func(d model.Document) bool {
		return d.Access == model.AccessPublic || d.CreatedBy == requesterID
	}), nil
}

func (m *MemoryDocuments) ListByAuthor(_ context.Context, authorID int64, limit, offset int) ([]*model.Document, error) {
	return m.filter(limit, offset, func(d model.Document) bool {
		return d.CreatedBy == authorID
	}), nil
}

func (m *MemoryDocuments) filter(limit, offset int, keep func(model.Document) bool) []*model.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*model.Document{}
	for _, d := range m.docs {
		if keep(d) {
			d := d
			matched = append(matched, &d)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if offset >= len(matched) {
		return []*model.Document{}
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

func (m *MemoryDocuments) Update(_ context.Context, d *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.docs[d.ID]
	if !ok {
		return ErrDocumentNotFound
	}
	stored.Title = d.Title
	stored.Content = d.Content
	stored.Access = d.Access
	stored.Categories = d.Categories
	stored.Tags = d.Tags
	stored.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	m.docs[d.ID] = stored
	*d = stored
	return nil
}

func (m *MemoryDocuments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

// MemoryUsers is an in-memory user store with the same contract as UserRepo.
type MemoryUsers struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
}

// NewMemoryUsers creates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[int64]model.User)}
}

func (m *MemoryUsers) Create(_ context.Context, u *model.User, password string, cost int) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrUsernameExists
		}
	}
	m.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	u.ID = m.nextID
	u.PasswordHash = hash
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

// Put stores u as-is, keeping its ID and role.
func (m *MemoryUsers) Put(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[u.ID] = u
	if u.ID > m.nextID {
		m.nextID = u.ID
	}
}

func (m *MemoryUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}
