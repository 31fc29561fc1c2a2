package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/application/usecase"
)

// KMLContentType media type of the map export.
const KMLContentType = "application/vnd.google-earth.kml+xml"

// FarmHandler public directory and listing submission.
type FarmHandler struct {
	uc       *usecase.FarmUseCase
	validate requestValidator
}

// NewFarmHandler builds the handler.
func NewFarmHandler(uc *usecase.FarmUseCase) *FarmHandler {
	return &FarmHandler{uc: uc, validate: newRequestValidator()}
}

// List godoc
// @Summary      Public directory
// @Description  Filters by free text and product category. With both lat and lon the result is ordered by distance and each mapped listing carries distance in km; otherwise it is ordered by name.
// @Tags         farms
// @Produce      json
// @Param        q         query  string  false  "search in name, location and products (case-insensitive)"
// @Param        category  query  string  false  "product category (case-sensitive substring)"
// @Param        lat       query  number  false  "origin latitude"
// @Param        lon       query  number  false  "origin longitude"
// @Param        lang      query  string  false  "collation locale for name ordering, e.g. fi, en"
// @Success      200  {array}   dto.FarmResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/farms [get]
func (h *FarmHandler) List(c *fiber.Ctx) error {
	q := dto.ListFarmsQuery{
		SearchTerm: c.Query("q"),
		Category:   c.Query("category"),
		Lat:        queryFloat(c, "lat"),
		Lon:        queryFloat(c, "lon"),
		Lang:       c.Query("lang"),
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Product categories
// @Description  Distinct product tags across the public directory, sorted.
// @Tags         farms
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/farms/categories [get]
func (h *FarmHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CategoriesResponse{Categories: cats})
}

// ExportKML godoc
// @Summary      Map export
// @Description  Public listings with coordinates as a KML document.
// @Tags         farms
// @Produce      application/vnd.google-earth.kml+xml
// @Success      200  {file}  file
// @Router       /api/farms/export.kml [get]
func (h *FarmHandler) ExportKML(c *fiber.Ctx) error {
	doc, err := h.uc.ExportKML(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, KMLContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="farms.kml"`)
	return c.Send(doc)
}

// GetByID godoc
// @Summary      Listing detail
// @Tags         farms
// @Produce      json
// @Param        id   path  string  true  "listing id"
// @Success      200  {object}  dto.FarmResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farms/{id} [get]
func (h *FarmHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Submit a listing
// @Description  Approved accounts and admins only. The listing waits for admin approval.
// @Tags         farms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFarmRequest  true  "listing"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/farms [post]
func (h *FarmHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFarmRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Delete a listing
// @Description  Owner or admin only.
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "listing id"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farms/{id} [delete]
func (h *FarmHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Farm deleted"})
}

// queryFloat returns nil when the parameter is absent or not a finite number.
func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
