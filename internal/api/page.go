package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"whattocook/internal/ingredient"
	"whattocook/internal/recipe"
	"whattocook/internal/thumbnail"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates parses the embedded page templates.
func pageTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// pageData is the view model of the search page. Searched is true once a
// lookup ran; an empty Recipes with no Error is the "no recipes" outcome.
type pageData struct {
	Input       string
	Ingredients []string
	Notice      string
	Searched    bool
	Error       string
	Recipes     []recipe.Recipe
	ThumbWidth  int
}

// Index handles GET /, the search page. With an ingredients query it parses
// the input, looks recipes up and renders results, an empty state or an
// error panel.
func (h *Handler) Index(c *gin.Context) {
	data := pageData{ThumbWidth: thumbnail.DefaultWidth}

	raw, submitted := c.GetQuery("ingredients")
	data.Input = raw
	if !submitted {
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	data.Ingredients = ingredient.Tokens(raw)
	if len(data.Ingredients) == 0 {
		data.Notice = "Please enter some ingredients"
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	recipes, err := h.RecipeFinder.Find(ctx, ingredient.Parse(raw))
	data.Searched = true
	if err != nil {
		lookupErr := asLookupError(err)
		logLookupError(logger(c), lookupErr)
		data.Error = lookupErr.Message
	} else {
		data.Recipes = recipes
	}

	c.HTML(http.StatusOK, "index.html", data)
}
