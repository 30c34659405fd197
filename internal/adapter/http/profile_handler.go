package http

import (
	"net/http"

	"loanflow-backend/internal/adapter/middleware"
	"loanflow-backend/internal/usecase/profile"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct{ uc *profile.Usecase }

func NewProfileHandler(uc *profile.Usecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

type updateProfileReq struct {
	Phone         *string  `json:"phone"`
	Address       *string  `json:"address"`
	Occupation    *string  `json:"occupation"`
	Employer      *string  `json:"employer"`
	MonthlyIncome *float64 `json:"monthly_income" validate:"omitempty,gte=0"`
}

func (h *ProfileHandler) Update(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	updated, err := h.uc.Update(c.Request().Context(), u.UserID, profile.UpdateInput{
		Phone:         req.Phone,
		Address:       req.Address,
		Occupation:    req.Occupation,
		Employer:      req.Employer,
		MonthlyIncome: req.MonthlyIncome,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAccount soft deletes the caller and removes their stored document
// files.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if err := h.uc.Delete(c.Request().Context(), u.UserID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
