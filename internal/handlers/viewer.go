package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/straypaws/straymap/internal/middleware"
	"github.com/straypaws/straymap/internal/policy"
	"github.com/straypaws/straymap/internal/services"
)

// viewerFrom resolves the request's viewer. With no usable token the viewer
// is anonymous; with one, the stored profile role is loaded so authorization
// never rides on the token's role claim. A token whose account has since
// been deleted degrades to anonymous.
func viewerFrom(c *fiber.Ctx, users *services.UserService) policy.Viewer {
	userID, err := middleware.UserID(c)
	if err != nil {
		return policy.Anonymous()
	}
	viewer, err := users.ViewerFor(userID)
	if err != nil {
		return policy.Anonymous()
	}
	return viewer
}
