package http

import (
	"net/http"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/user"
	"loanflow-backend/internal/usecase/review"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct{ uc *review.Usecase }

func NewAdminHandler(uc *review.Usecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// List serves the review queue. status filters exactly, search matches the
// applicant name case-insensitively, sort takes a column name with an
// optional "-" prefix for descending.
func (h *AdminHandler) List(c echo.Context) error {
	apps, err := h.uc.List(c.Request().Context(), application.ListFilter{
		Status: application.Status(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": apps, "count": len(apps)})
}

type reviewDocumentReq struct {
	DocumentName    string `json:"documentName" validate:"required,doctype"`
	Status          string `json:"status" validate:"required,docdecision"`
	RejectionReason string `json:"rejectionReason"`
}

func (h *AdminHandler) ReviewDocument(c echo.Context) error {
	var req reviewDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	doc, err := h.uc.ReviewDocument(c.Request().Context(), c.Param("id"),
		user.DocType(req.DocumentName), user.DocStatus(req.Status), req.RejectionReason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

type decideReq struct {
	Decision        string `json:"decision" validate:"required,oneof=approve reject"`
	Note            string `json:"note"`
	RejectionReason string `json:"rejectionReason"`
}

func (h *AdminHandler) Decide(c echo.Context) error {
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	app, err := h.uc.Decide(c.Request().Context(), c.Param("id"), review.Decision{
		Approve:         req.Decision == "approve",
		Note:            req.Note,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}

type assignReq struct {
	OfficerID string `json:"officerId" validate:"required,hex32"`
}

func (h *AdminHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	app, err := h.uc.Assign(c.Request().Context(), c.Param("id"), req.OfficerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}
