package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/application/usecase"
)

// AdminHandler account and listing moderation. Every route sits behind RequireAdmin.
type AdminHandler struct {
	uc       *usecase.AdminUseCase
	validate requestValidator
}

// NewAdminHandler builds the handler.
func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc, validate: newRequestValidator()}
}

// ListUsers godoc
// @Summary      List accounts
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.AdminUserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.uc.ListUsers(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateUserStatus godoc
// @Summary      Change account status
// @Description  Legal moves: pending_approval to approved or rejected, approved to suspended, suspended or rejected to approved.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "account id"
// @Param        body  body  dto.UpdateStatusRequest  true  "target status"
// @Success      200   {object}  dto.StatusUpdatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateUserStatus(c.UserContext(), GetIdentity(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListFarms godoc
// @Summary      List every listing with owner and notes
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.AdminFarmResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/farms [get]
func (h *AdminHandler) ListFarms(c *fiber.Ctx) error {
	out, err := h.uc.ListFarms(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateFarmStatus godoc
// @Summary      Change listing status
// @Description  Optional admin_notes replace the stored notes.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "listing id"
// @Param        body  body  dto.UpdateStatusRequest  true  "target status and notes"
// @Success      200   {object}  dto.StatusUpdatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/farms/{id} [put]
func (h *AdminHandler) UpdateFarmStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateFarmStatus(c.UserContext(), GetIdentity(c), c.Params("id"), in.Status, in.AdminNotes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Directory report
// @Description  PDF summary of every listing grouped by status.
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/farms/report.pdf [get]
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	doc, err := h.uc.Report(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("farm-directory-%s.pdf", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(doc)
}
