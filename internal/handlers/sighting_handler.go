package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/geo"
	"github.com/straypaws/straymap/internal/middleware"
	"github.com/straypaws/straymap/internal/services"
	"github.com/straypaws/straymap/internal/storage"
)

type SightingHandler struct {
	sightingService *services.SightingService
	userService     *services.UserService
	blobs           storage.BlobStore
}

func NewSightingHandler(sightingService *services.SightingService, userService *services.UserService, blobs storage.BlobStore) *SightingHandler {
	return &SightingHandler{
		sightingService: sightingService,
		userService:     userService,
		blobs:           blobs,
	}
}

// Create accepts either a JSON body or a multipart form. The multipart path
// carries photo files under the "photos" field; uploads are stored before
// the row is written, and any orphaned files from a failed create are left
// for the cleanup job.
func (h *SightingHandler) Create(c *fiber.Ctx) error {
	ownerID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateSightingRequest
	var photoURLs []string

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid multipart form",
			})
		}

		req.Latitude, _ = strconv.ParseFloat(c.FormValue("latitude"), 64)
		req.Longitude, _ = strconv.ParseFloat(c.FormValue("longitude"), 64)
		req.Note = c.FormValue("note")
		req.Visibility = c.FormValue("visibility")

		for _, fh := range form.File["photos"] {
			url, err := h.blobs.SaveUpload("sighting", fh)
			if err != nil {
				if errors.Is(err, storage.ErrUnsupportedFileType) || errors.Is(err, storage.ErrFileTooLarge) {
					return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
						Error: true, Message: err.Error(),
					})
				}
				slog.Error("failed to store sighting photo", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: true, Message: "Failed to store photo",
				})
			}
			photoURLs = append(photoURLs, url)
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.sightingService.Create(ownerID, &req, photoURLs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *SightingHandler) List(c *fiber.Ctx) error {
	viewer := viewerFrom(c, h.userService)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.sightingService.List(viewer, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list sightings",
		})
	}

	return c.JSON(resp)
}

func (h *SightingHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sighting id",
		})
	}

	viewer := viewerFrom(c, h.userService)
	resp, err := h.sightingService.Get(id, viewer)
	if err != nil {
		if errors.Is(err, services.ErrSightingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load sighting",
		})
	}

	return c.JSON(resp)
}

func (h *SightingHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sighting id",
		})
	}

	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	viewer, err := h.userService.ViewerFor(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.DeleteSightingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.sightingService.Delete(id, viewer, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrSightingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrReasonRequired), errors.Is(err, services.ErrReasonTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to delete sighting",
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Sighting deleted"})
}

func (h *SightingHandler) DeletionLog(c *fiber.Ctx) error {
	viewer := viewerFrom(c, h.userService)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	resp, err := h.sightingService.ListDeletionLog(viewer, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrRoleForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load deletion log",
		})
	}

	return c.JSON(resp)
}

// parsePoint reads lat/lng query params shared by geo lookups.
func parsePoint(c *fiber.Ctx) (geo.LatLng, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return geo.LatLng{}, errors.New("lat query parameter is required")
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return geo.LatLng{}, errors.New("lng query parameter is required")
	}
	p := geo.LatLng{Lat: lat, Lng: lng}
	return p, p.Validate()
}
