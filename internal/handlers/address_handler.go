package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for shipping addresses.
type AddressHandler struct {
	addressService *services.AddressService
	validate       *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the address routes with the Fiber app. All
// address routes require authentication.
func (h *AddressHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	addressRoutes := router.Group("/addresses", auth)
	addressRoutes.Get("/", h.HandleList)
	addressRoutes.Post("/", h.HandleCreate)
	addressRoutes.Put("/:id", h.HandleUpdate)
	addressRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList lists the caller's addresses.
func (h *AddressHandler) HandleList(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	addresses, err := h.addressService.ListAddresses(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(addresses)
}

// HandleCreate adds an address. A user's first address becomes the default.
func (h *AddressHandler) HandleCreate(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		log.Printf("Error parsing address body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(address); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	if err := h.addressService.CreateAddress(identity.UserID, &address); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleUpdate updates one of the caller's addresses. Marking it default
// demotes any other default.
func (h *AddressHandler) HandleUpdate(c *fiber.Ctx) error {
	var updated models.Address
	if err := c.BodyParser(&updated); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(updated); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	address, err := h.addressService.UpdateAddress(identity.UserID, c.Params("id"), &updated)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(address)
}

// HandleDelete removes one of the caller's addresses.
func (h *AddressHandler) HandleDelete(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if err := h.addressService.DeleteAddress(identity.UserID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
