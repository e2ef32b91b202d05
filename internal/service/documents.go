package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/metrics"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/queue"
	"github.com/mikey2020/docs-cabinet-cp2/internal/repository"
	"github.com/mikey2020/docs-cabinet-cp2/internal/validate"
)

const (
	msgReadForbidden   = "You cannot access this document."
	msgModifyForbidden = "Halt! You cannot modify this document."

	publishTimeout = 3 * time.Second
)

// DocumentService runs the document lifecycle: create, read, list, update
// and delete, plus the admin listing of one user's documents.
type DocumentService struct {
	docs   DocumentStore
	users  UserStore
	events EventPublisher
	log    zerolog.Logger
}

// DocumentServiceConfig holds the collaborators of a DocumentService.
// Events may be nil, in which case nothing is published.
type DocumentServiceConfig struct {
	Documents DocumentStore
	Users     UserStore
	Events    EventPublisher
	Logger    zerolog.Logger
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(cfg DocumentServiceConfig) *DocumentService {
	return &DocumentService{
		docs:   cfg.Documents,
		users:  cfg.Users,
		events: cfg.Events,
		log:    cfg.Logger,
	}
}

// CreateInput is the payload of a create request.
type CreateInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Access     string `json:"access"`
	Categories string `json:"categories"`
	Tags       string `json:"tags"`
}

// Create stores a new document authored by p. The access value is
// lower-cased before it is checked and stored.
func (s *DocumentService) Create(ctx context.Context, p model.Principal, in CreateInput) (*model.Document, error) {
	tier, err := validate.NormalizeAccess(in.Access)
	if err != nil {
		return nil, err
	}
	doc := &model.Document{
		Title:      in.Title,
		Content:    in.Content,
		Access:     tier,
		Categories: in.Categories,
		Tags:       in.Tags,
		CreatedBy:  p.ID,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventDocumentCreated, doc, p)
	return doc, nil
}

// readTarget is the result of the lookup step of a read: the document and,
// for the role tier only, its author.
type readTarget struct {
	doc    *model.Document
	author access.Author
}

// lookupForRead fetches the document and then, if its tier needs it, the
// author. The two lookups are sequential; a missing author is reported as
// a not-found Author rather than an error.
func (s *DocumentService) lookupForRead(ctx context.Context, id int64) (readTarget, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return readTarget{}, access.New(access.KindNoDocumentsFound, "")
		}
		return readTarget{}, err
	}
	target := readTarget{doc: doc}
	if !access.NeedsAuthor(doc) {
		return target, nil
	}

	u, err := s.users.GetByID(ctx, doc.CreatedBy)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		target.author = access.AuthorOf(nil)
	case err != nil:
		return readTarget{}, fmt.Errorf("lookup author of document %d: %w", doc.ID, err)
	default:
		target.author = access.AuthorOf(u)
	}
	return target, nil
}

// Get returns the document named by rawID if p may read it.
func (s *DocumentService) Get(ctx context.Context, p model.Principal, rawID string) (*model.Document, error) {
	id, err := validate.DocumentID(rawID)
	if err != nil {
		// A read has no separate "not supplied" outcome.
		return nil, access.New(access.KindInvalidDocumentID, "")
	}
	target, err := s.lookupForRead(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := access.CanRead(target.doc, p, target.author)
	s.observe(access.OpRead, decision, target.doc, p)
	switch decision {
	case access.Allow:
		return target.doc, nil
	case access.Unresolved:
		return nil, access.New(access.KindNoDocumentsFound, "")
	default:
		return nil, access.New(access.KindForbiddenOperation, msgReadForbidden)
	}
}

// List returns the documents p may see in the listing: public ones and
// p's own, whatever their tier. An empty page is not an error.
func (s *DocumentService) List(ctx context.Context, p model.Principal, limit, offset int) ([]*model.Document, error) {
	return s.docs.ListVisible(ctx, p.ID, limit, offset)
}

// lookupForMutation fetches the document an update or delete targets.
// verb names the mutation in the not-found message.
func (s *DocumentService) lookupForMutation(ctx context.Context, id int64, verb string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, targetNotFound(verb)
		}
		return nil, err
	}
	return doc, nil
}

func targetNotFound(verb string) *access.Error {
	return access.New(access.KindTargetDocumentNotFound, "The document you tried to "+verb+" doesn't exist.")
}

// Update applies the partial update in body to the document named by rawID.
// Only the author may update, whatever their role. Fields absent from body
// are left unchanged.
func (s *DocumentService) Update(ctx context.Context, p model.Principal, rawID string, body []byte) (*model.Document, error) {
	id, err := validate.DocumentID(rawID)
	if err != nil {
		return nil, err
	}
	patch, err := validate.UpdateBody(body)
	if err != nil {
		return nil, err
	}
	doc, err := s.lookupForMutation(ctx, id, "update")
	if err != nil {
		return nil, err
	}

	decision := access.CanUpdate(doc, p)
	s.observe(access.OpUpdate, decision, doc, p)
	if decision != access.Allow {
		return nil, access.New(access.KindForbiddenOperation, msgModifyForbidden)
	}
	if patch.Empty() {
		return doc, nil
	}

	patch.Apply(doc)
	if err := s.docs.Update(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, targetNotFound("update")
		}
		return nil, err
	}
	s.publish(ctx, queue.EventDocumentUpdated, doc, p)
	return doc, nil
}

// Delete removes the document named by rawID. The author or any elevated
// role may delete.
func (s *DocumentService) Delete(ctx context.Context, p model.Principal, rawID string) error {
	id, err := validate.DocumentID(rawID)
	if err != nil {
		return err
	}
	doc, err := s.lookupForMutation(ctx, id, "delete")
	if err != nil {
		return err
	}

	decision := access.CanDelete(doc, p)
	s.observe(access.OpDelete, decision, doc, p)
	if decision != access.Allow {
		return access.New(access.KindForbiddenOperation, msgModifyForbidden)
	}
	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return targetNotFound("delete")
		}
		return err
	}
	s.publish(ctx, queue.EventDocumentDeleted, doc, p)
	return nil
}

// UserDocumentsResource is the only sub-resource served under /users/:id.
const UserDocumentsResource = "documents"

// ListForUser returns every document authored by the user named by
// rawUserID. Only elevated roles may call it; that check precedes any
// validation so ordinary users learn nothing about the path.
func (s *DocumentService) ListForUser(ctx context.Context, p model.Principal, rawUserID, resource string, limit, offset int) ([]*model.Document, error) {
	if p.RoleID <= 0 {
		return nil, access.New(access.KindForbiddenOperation, "")
	}
	userID, err := validate.UserID(rawUserID)
	if err != nil {
		return nil, err
	}
	if resource != UserDocumentsResource {
		return nil, access.New(access.KindUnrecognizedPath, "")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, access.New(access.KindTargetUserNotFound, "")
		}
		return nil, err
	}
	return s.docs.ListByAuthor(ctx, userID, limit, offset)
}

func (s *DocumentService) observe(op access.Operation, d access.Decision, doc *model.Document, p model.Principal) {
	metrics.ObserveDecision(op.String(), d.String())
	if d != access.Allow {
		s.log.Debug().
			Str("operation", op.String()).
			Str("decision", d.String()).
			Int64("document_id", doc.ID).
			Str("access", string(doc.Access)).
			Int64("user_id", p.ID).
			Int("role_id", p.RoleID).
			Msg("access not granted")
	}
}

// publish emits a lifecycle event. Failures are logged and never change
// the outcome of the request that caused them.
func (s *DocumentService) publish(ctx context.Context, typ string, doc *model.Document, p model.Principal) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := queue.DocumentEvent{
		Type:       typ,
		DocumentID: doc.ID,
		ActorID:    p.ID,
		ActorRole:  p.RoleID,
		Access:     string(doc.Access),
		Title:      doc.Title,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", typ).Int64("document_id", doc.ID).Msg("publish document event failed")
	}
}
