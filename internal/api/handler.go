package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whattocook/internal/recipe"
	"whattocook/internal/thumbnail"
)

// lookupTimeout bounds a whole request; the outbound client has its own,
// usually shorter, timeout.
const lookupTimeout = 30 * time.Second

// RecipeFinder defines the interface for looking up recipes by ingredients.
type RecipeFinder interface {
	Find(ctx context.Context, ingredients string) ([]recipe.Recipe, error)
}

// Thumbnailer defines the interface for fetching resized recipe images.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, src string, width int) (*thumbnail.Image, error)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler handles HTTP requests.
type Handler struct {
	RecipeFinder RecipeFinder
	Thumbnailer  Thumbnailer
}

// NewHandler creates a new Handler.
func NewHandler(finder RecipeFinder, thumbnailer Thumbnailer) *Handler {
	return &Handler{RecipeFinder: finder, Thumbnailer: thumbnailer}
}

// FindRecipes handles GET /api/recipes?ingredients=a,b,c.
func (h *Handler) FindRecipes(c *gin.Context) {
	ingredients := c.Query("ingredients")

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	recipes, err := h.RecipeFinder.Find(ctx, ingredients)
	if err != nil {
		lookupErr := asLookupError(err)
		logLookupError(logger(c), lookupErr)
		c.JSON(lookupErr.Status, ErrorResponse{Error: lookupErr.Message})
		return
	}

	logger(c).WithFields(logrus.Fields{
		"ingredients": ingredients,
		"results":     len(recipes),
	}).Info("recipes found")

	c.JSON(http.StatusOK, recipes)
}

// Thumbnail handles GET /images/thumbnail?src=<url>&w=<width>.
func (h *Handler) Thumbnail(c *gin.Context) {
	width := 0
	if w := c.Query("w"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid width"})
			return
		}
		width = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	img, err := h.Thumbnailer.Thumbnail(ctx, c.Query("src"), width)
	if err != nil {
		log := logger(c).WithError(err)
		switch {
		case errors.Is(err, thumbnail.ErrInvalidSource):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid image source"})
		case errors.Is(err, thumbnail.ErrHostNotAllowed):
			log.Warn("thumbnail host rejected")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Image host not allowed"})
		default:
			log.Warn("thumbnail fetch failed")
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch image"})
		}
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func asLookupError(err error) *recipe.Error {
	var lookupErr *recipe.Error
	if errors.As(err, &lookupErr) {
		return lookupErr
	}
	return recipe.Internal(err)
}

func logLookupError(log logrus.FieldLogger, err *recipe.Error) {
	entry := log.WithFields(logrus.Fields{
		"kind":   err.Kind,
		"status": err.Status,
	})
	if err.Cause != nil {
		entry = entry.WithError(err.Cause)
	}

	switch err.Kind {
	case recipe.KindClient:
		entry.Debug("recipe lookup rejected")
	case recipe.KindInternal, recipe.KindConfiguration:
		entry.Error("recipe lookup failed")
	default:
		entry.Warn("recipe lookup failed upstream")
	}
}
