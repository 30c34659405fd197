package http

import (
	"net/http"

	"loanflow-backend/internal/adapter/middleware"
	"loanflow-backend/internal/domain/user"
	"loanflow-backend/internal/usecase/document"

	"github.com/labstack/echo/v4"
)

type DocumentHandler struct{ uc *document.Usecase }

func NewDocumentHandler(uc *document.Usecase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

type checklistResp struct {
	Documents []user.Document `json:"documents"`
	Verified  int             `json:"verified"`
	Total     int             `json:"total"`
	Complete  bool            `json:"complete"`
}

// List returns the checklist with one slot per required type, virtual
// not_uploaded entries included, plus progress over the required set.
func (h *DocumentHandler) List(c echo.Context) error {
	u := middleware.CurrentUser(c)
	docs, err := h.uc.List(c.Request().Context(), u.UserID)
	if err != nil {
		return writeError(c, err)
	}
	verified, total := document.Progress(docs, user.RequiredDocTypes)
	return c.JSON(http.StatusOK, checklistResp{
		Documents: docs,
		Verified:  verified,
		Total:     total,
		Complete:  document.IsComplete(docs, user.RequiredDocTypes),
	})
}

// Upload accepts a multipart form with a "file" part and a "documentType"
// value. Size and MIME checks happen in the usecase against per-type rules.
func (h *DocumentHandler) Upload(c echo.Context) error {
	u := middleware.CurrentUser(c)

	docType := user.DocType(c.FormValue("documentType"))
	if !user.ValidDocType(docType) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []FieldError{
			{Field: "documentType", Message: "is not a recognized document type"},
		}})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []FieldError{
			{Field: "file", Message: "is required"},
		}})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read uploaded file"})
	}
	defer src.Close()

	doc, err := h.uc.Upload(c.Request().Context(), document.UploadInput{
		UserID:   u.UserID,
		DocType:  docType,
		File:     src,
		Size:     fh.Size,
		MimeType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}
