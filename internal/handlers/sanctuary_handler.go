package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/geo"
	"github.com/straypaws/straymap/internal/middleware"
	"github.com/straypaws/straymap/internal/policy"
	"github.com/straypaws/straymap/internal/services"
	"github.com/straypaws/straymap/internal/storage"
)

type SanctuaryHandler struct {
	sanctuaryService *services.SanctuaryService
	userService      *services.UserService
	blobs            storage.BlobStore
}

func NewSanctuaryHandler(sanctuaryService *services.SanctuaryService, userService *services.UserService, blobs storage.BlobStore) *SanctuaryHandler {
	return &SanctuaryHandler{
		sanctuaryService: sanctuaryService,
		userService:      userService,
		blobs:            blobs,
	}
}

func (h *SanctuaryHandler) List(c *fiber.Ctx) error {
	viewer := viewerFrom(c, h.userService)
	includeUnapproved := viewer.Role == policy.RoleAdmin && c.QueryBool("include_unapproved", false)

	resp, err := h.sanctuaryService.List(includeUnapproved)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list sanctuaries",
		})
	}

	return c.JSON(resp)
}

func (h *SanctuaryHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sanctuary id",
		})
	}

	viewer := viewerFrom(c, h.userService)
	resp, err := h.sanctuaryService.Get(id, viewer.Role == policy.RoleAdmin)
	if err != nil {
		if errors.Is(err, services.ErrSanctuaryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load sanctuary",
		})
	}

	return c.JSON(resp)
}

// Match answers "which sanctuaries cover this point", the lookup the map
// client runs when a user drops a pin.
func (h *SanctuaryHandler) Match(c *fiber.Ctx) error {
	point, err := parsePoint(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	resp, err := h.sanctuaryService.Match(point)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to match sanctuaries",
		})
	}

	return c.JSON(resp)
}

func (h *SanctuaryHandler) Save(c *fiber.Ctx) error {
	actorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SaveSanctuaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.sanctuaryService.Save(actorID, &req)
	if err != nil {
		return h.mapSanctuaryError(c, err)
	}

	status := fiber.StatusOK
	if req.ID == nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

func (h *SanctuaryHandler) SetApproval(c *fiber.Ctx) error {
	actorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sanctuary id",
		})
	}

	var req dto.SetApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.sanctuaryService.SetApproval(actorID, id, req.Approved)
	if err != nil {
		return h.mapSanctuaryError(c, err)
	}

	return c.JSON(resp)
}

func (h *SanctuaryHandler) Delete(c *fiber.Ctx) error {
	actorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sanctuary id",
		})
	}

	if err := h.sanctuaryService.Delete(actorID, id); err != nil {
		return h.mapSanctuaryError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Sanctuary deleted"})
}

// UploadLogo stores a logo image and returns its URL for a subsequent save.
func (h *SanctuaryHandler) UploadLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "logo file is required",
		})
	}

	url, err := h.blobs.SaveUpload("logo", fh)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) || errors.Is(err, storage.ErrFileTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("failed to store logo", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store logo",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"logo_url": url})
}

func (h *SanctuaryHandler) mapSanctuaryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRoleForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrSanctuaryNotFound), errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrNameTooLong),
		errors.Is(err, services.ErrCaregiverNotFound),
		errors.Is(err, services.ErrDescriptionRejected),
		errors.Is(err, geo.ErrInvalidLatitude),
		errors.Is(err, geo.ErrInvalidLongitude),
		errors.Is(err, geo.ErrRadiusNotPositive),
		errors.Is(err, geo.ErrTooFewVertices),
		errors.Is(err, geo.ErrZeroArea),
		errors.Is(err, geo.ErrSelfIntersecting),
		errors.Is(err, geo.ErrUnknownAreaMode),
		errors.Is(err, geo.ErrBadOpeningHours):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("sanctuary operation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
