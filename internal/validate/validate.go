// Package validate inspects path and body input for the document endpoints
// before any store access. Every function is pure: it returns a normalized
// value or an *access.Error naming the failure.
package validate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

// DocumentID checks the id path segment of a document route. An absent
// segment is DocumentIdNotSupplied; one that is not a base-10 integer is
// InvalidDocumentId. No range check is applied.
func DocumentID(raw string) (int64, error) {
	if raw == "" {
		return 0, access.New(access.KindDocumentIDNotSupplied, "")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, access.New(access.KindInvalidDocumentID, "")
	}
	return id, nil
}

// UserID checks the id path segment of a user route.
func UserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, access.New(access.KindInvalidUserID, "")
	}
	return id, nil
}

// NormalizeAccess lower-cases raw and checks it names a known tier.
func NormalizeAccess(raw string) (model.AccessTier, error) {
	tier := model.AccessTier(strings.ToLower(raw))
	if !tier.Valid() {
		return "", access.New(access.KindInvalidDocumentAccess, "")
	}
	return tier, nil
}

// UpdateBody decodes a partial update payload. An absent, empty, null or
// non-object body is EmptyDocumentBody. Unrecognized keys are ignored, as
// are recognized keys whose value is not a non-empty string; such a body is
// still accepted and yields an empty patch.
func UpdateBody(body []byte) (model.DocumentPatch, error) {
	var patch model.DocumentPatch

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return patch, access.New(access.KindEmptyDocumentBody, "")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return patch, access.New(access.KindEmptyDocumentBody, "")
	}

	patch.Title = stringField(fields, "title")
	patch.Content = stringField(fields, "content")
	patch.Categories = stringField(fields, "categories")
	patch.Tags = stringField(fields, "tags")
	if raw := stringField(fields, "access"); raw != nil {
		tier, err := NormalizeAccess(*raw)
		if err != nil {
			return patch, err
		}
		patch.Access = &tier
	}
	return patch, nil
}

// stringField returns the non-empty string stored under key, or nil.
func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	return &s
}
