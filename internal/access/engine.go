package access

import "github.com/mikey2020/docs-cabinet-cp2/internal/model"

// Operation names an action a requester wants to perform on a document.
type Operation int

const (
	OpRead Operation = iota
	OpUpdate
	OpDelete
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
	// Unresolved means the rule could not be evaluated because a record it
	// depends on is missing. Callers must not treat it as Allow.
	Unresolved
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Author is the result of the secondary author lookup required by the role
// tier. The zero value means the author was not found.
type Author struct {
	Found  bool
	RoleID int
}

// AuthorOf wraps a looked-up user. A nil user yields a not-found Author.
func AuthorOf(u *model.User) Author {
	if u == nil {
		return Author{}
	}
	return Author{Found: true, RoleID: u.RoleID}
}

// NeedsAuthor reports whether reading doc requires the author lookup.
func NeedsAuthor(doc *model.Document) bool {
	return doc.Access == model.AccessRole
}

// CanRead applies the read rules for the document's tier:
//
//	public  – everyone
//	private – the author, or any requester with roleId > 0
//	role    – requesters whose roleId equals the author's roleId exactly
//
// Any other stored tier is denied for everyone.
func CanRead(doc *model.Document, p model.Principal, author Author) Decision {
	switch doc.Access {
	case model.AccessPublic:
		return Allow
	case model.AccessPrivate:
		if p.ID == doc.CreatedBy || p.RoleID > 0 {
			return Allow
		}
		return Deny
	case model.AccessRole:
		if !author.Found {
			return Unresolved
		}
		// Equality, not a hierarchy: a higher role does not see a lower
		// author's role-tier documents.
		if author.RoleID == p.RoleID {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}

// CanUpdate allows only the author, whatever the requester's role.
func CanUpdate(doc *model.Document, p model.Principal) Decision {
	if p.ID == doc.CreatedBy {
		return Allow
	}
	return Deny
}

// CanDelete allows the author or any requester with roleId > 0.
func CanDelete(doc *model.Document, p model.Principal) Decision {
	if p.ID == doc.CreatedBy || p.RoleID > 0 {
		return Allow
	}
	return Deny
}
