package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"mortgage-qualify/internal/core/domain"
	"mortgage-qualify/internal/pkg/response"
)

// InstitutionHandler serves the loaded institution registry. The registry is
// read-only after boot, so these endpoints never touch the database.
type InstitutionHandler struct {
	registry *domain.Registry
}

// NewInstitutionHandler creates a new institution handler.
func NewInstitutionHandler(registry *domain.Registry) *InstitutionHandler {
	return &InstitutionHandler{registry: registry}
}

// List returns every registered institution, sorted by code.
func (h *InstitutionHandler) List(c *fiber.Ctx) error {
	institutions := h.registry.All()
	sort.Slice(institutions, func(i, j int) bool {
		return institutions[i].Code < institutions[j].Code
	})
	return response.Success(c, "", fiber.Map{
		"institutions": institutions,
	})
}

// Get resolves one institution by code.
func (h *InstitutionHandler) Get(c *fiber.Ctx) error {
	inst, err := h.registry.Get(c.Params("code"))
	if err != nil {
		return response.NotFound(c, err.Error())
	}
	return response.Success(c, "", fiber.Map{
		"institution": inst,
	})
}
