// Package access holds the document authorization rules and the closed set
// of failures that the document and user endpoints can report. Every Kind
// maps to exactly one wire string and one HTTP status in the kinds table
// below; handlers never spell those strings themselves.
package access

import (
	"errors"
	"net/http"
)

// Kind enumerates the request failures surfaced to clients.
type Kind int

const (
	KindDocumentIDNotSupplied Kind = iota + 1
	KindInvalidDocumentID
	KindEmptyDocumentBody
	KindInvalidDocumentAccess
	KindForbiddenOperation
	KindNoDocumentsFound
	KindTargetDocumentNotFound
	KindInvalidUserID
	KindUnrecognizedPath
	KindTargetUserNotFound
	KindInvalidSignupData
	KindUsernameTaken
	KindInvalidCredentials
	KindInvalidToken
	KindInvalidRequestBody
	KindRequestBodyTooLarge
	KindTooManyRequests
)

type kindInfo struct {
	code    string
	status  int
	message string
}

var kinds = map[Kind]kindInfo{
	KindDocumentIDNotSupplied:  {"DocumentIdNotSuppliedError", http.StatusBadRequest, "Oops! You didn't supply the id of the document."},
	KindInvalidDocumentID:      {"InvalidDocumentIdError", http.StatusBadRequest, "The document id you supplied is not a valid number."},
	KindEmptyDocumentBody:      {"EmptyDocumentBodyError", http.StatusBadRequest, "You didn't supply any info for the update."},
	KindInvalidDocumentAccess:  {"InvalidDocumentAccessError", http.StatusBadRequest, "Access must be one of public, private or role."},
	KindForbiddenOperation:     {"ForbiddenOperationError", http.StatusForbidden, "You cannot access this document."},
	KindNoDocumentsFound:       {"NoDocumentsFoundError", http.StatusNotFound, "The document you requested for doesn't exist."},
	KindTargetDocumentNotFound: {"TargetDocumentNotFoundError", http.StatusNotFound, "The document you tried to modify doesn't exist."},
	KindInvalidUserID:          {"InvalidUserIdError", http.StatusBadRequest, "The user id you supplied is not a valid number."},
	KindUnrecognizedPath:       {"UnrecognizedPathError", http.StatusBadRequest, "The path you requested is not recognized."},
	KindTargetUserNotFound:     {"TargetUserNotFoundError", http.StatusNotFound, "The user you specified doesn't exist."},
	KindInvalidSignupData:      {"InvalidSignupDataError", http.StatusBadRequest, "First name, last name, username and password are required."},
	KindUsernameTaken:          {"UsernameTakenError", http.StatusConflict, "That username is already taken."},
	KindInvalidCredentials:     {"InvalidCredentialsError", http.StatusUnauthorized, "The username or password is incorrect."},
	KindInvalidToken:           {"InvalidTokenError", http.StatusUnauthorized, "You need a valid token to access this resource."},
	KindInvalidRequestBody:     {"InvalidRequestBodyError", http.StatusBadRequest, "The request body is not valid JSON."},
	KindRequestBodyTooLarge:    {"RequestBodyTooLargeError", http.StatusRequestEntityTooLarge, "The request body is too large."},
	KindTooManyRequests:        {"TooManyRequestsError", http.StatusTooManyRequests, "Too many requests. Try again shortly."},
}

// String returns the wire identifier for k, e.g. "ForbiddenOperationError".
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return "UnknownError"
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is a terminal request failure of a known kind.
type Error struct {
	Kind    Kind
	Message string
}

// New returns an Error of the given kind. An empty message falls back to the
// kind's default wording.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = kinds[kind].message
	}
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
