package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/service"
	"github.com/mikey2020/docs-cabinet-cp2/internal/utils"
)

const maxBodyBytes = 1 << 20

// Paging holds the list limits applied to ?limit and ?offset.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Paging) from(c echo.Context) (limit, offset int) {
	return utils.LimitOffset(c.QueryParam("limit"), c.QueryParam("offset"), p.DefaultLimit, p.MaxLimit)
}

// DocumentHandler serves /api/documents and the admin user documents
// listing.
type DocumentHandler struct {
	Docs   *service.DocumentService
	Paging Paging
	Log    zerolog.Logger
}

func NewDocumentHandler(docs *service.DocumentService, paging Paging, log zerolog.Logger) *DocumentHandler {
	if docs == nil {
		panic("nil document service passed to NewDocumentHandler")
	}
	return &DocumentHandler{Docs: docs, Paging: paging, Log: log}
}

type documentsResp struct {
	Message   string             `json:"message"`
	Documents []model.Projection `json:"documents"`
}

// Create: POST /api/documents
func (h *DocumentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, h.Log, access.New(access.KindInvalidRequestBody, ""))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc, err := h.Docs.Create(ctx, p, in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, documentsResp{
		Message:   "Your document was successfully created.",
		Documents: []model.Projection{doc.Project()},
	})
}

// Get: GET /api/documents/:id
func (h *DocumentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc, err := h.Docs.Get(ctx, p, c.Param("id"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, documentsResp{
		Message:   "Document found.",
		Documents: []model.Projection{doc.Project()},
	})
}

// List: GET /api/documents?limit=&offset=
func (h *DocumentHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	limit, offset := h.Paging.from(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Docs.List(ctx, p, limit, offset)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, documentsResp{Message: "Documents found.", Documents: model.ProjectAll(docs)})
}

// Update: PUT /api/documents/:id.  Also mounted without :id so that a
// missing id is reported rather than routed to 404/405.
func (h *DocumentHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	body, err := readBody(c, maxBodyBytes)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc, err := h.Docs.Update(ctx, p, c.Param("id"), body)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, documentsResp{
		Message:   "Document updated.",
		Documents: []model.Projection{doc.Project()},
	})
}

// Delete: DELETE /api/documents/:id.  Mounted without :id too, like Update.
func (h *DocumentHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Docs.Delete(ctx, p, c.Param("id")); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Document deleted."})
}

// UserDocuments: GET /api/users/:id/:resource (elevated roles only)
func (h *DocumentHandler) UserDocuments(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	limit, offset := h.Paging.from(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Docs.ListForUser(ctx, p, c.Param("id"), c.Param("resource"), limit, offset)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, documentsResp{Message: "Documents found.", Documents: model.ProjectAll(docs)})
}
