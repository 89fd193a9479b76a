package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/drinkbook/client/internal/domain"
	"github.com/drinkbook/client/internal/infrastructure/drinkapi"
	"github.com/drinkbook/client/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheStats reports how many entries a cache holds
type CacheStats interface {
	Size() int
}

// Services bundles the catalog components the handlers expose
type Services struct {
	Store    *usecase.DrinkStore
	Lookup   *usecase.RecipeLookup
	Errors   *usecase.ErrorChannel
	Sessions *usecase.SearchSessions
	Filter   *usecase.CatalogFilter
	// ImageCache is optional and only feeds the health check
	ImageCache CacheStats
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	svc     Services
	version string
	log     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services, version string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if svc.Filter == nil {
		svc.Filter = usecase.NewCatalogFilter(usecase.FilterConfig{})
	}
	return &Handler{svc: svc, version: version, log: log.Named("http")}
}

// drinkResponse is a recipe with its rendered photo URL
type drinkResponse struct {
	domain.Recipe
	ImageURL string `json:"imageUrl"`
}

func newDrinkResponse(r domain.Recipe) drinkResponse {
	return drinkResponse{Recipe: r, ImageURL: drinkapi.PhotoURL(r.ImageID)}
}

type ingredientResponse struct {
	domain.IngredientChoice
	ImageURL string `json:"imageUrl"`
}

type sessionResponse struct {
	usecase.SearchSnapshot
	ImageURLs []string `json:"imageUrls"`
}

func newSessionResponse(snap usecase.SearchSnapshot) sessionResponse {
	urls := make([]string, len(snap.Results))
	for i, ref := range snap.Results {
		urls[i] = drinkapi.RefURL(ref)
	}
	return sessionResponse{SearchSnapshot: snap, ImageURLs: urls}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "drinkbook",
		"version": h.version,
	}
	if h.svc.Store != nil {
		resp["drinksLoaded"] = h.svc.Store.Loaded()
	}
	if h.svc.ImageCache != nil {
		resp["cachedImagePages"] = h.svc.ImageCache.Size()
	}
	if h.svc.Sessions != nil {
		resp["imageSessions"] = h.svc.Sessions.Len()
	}
	c.JSON(http.StatusOK, resp)
}

// ListDrinks returns the sorted collection narrowed by the search, alcohol
// and type query parameters
func (h *Handler) ListDrinks(c *gin.Context) {
	alcohol, err := usecase.ParseAlcoholFilter(c.Query("alcohol"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	drinks := h.svc.Filter.Filter(h.svc.Store.Drinks(), usecase.FilterOptions{
		Search:  c.Query("search"),
		Alcohol: alcohol,
		Type:    c.Query("type"),
	})

	out := make([]drinkResponse, len(drinks))
	for i, d := range drinks {
		out[i] = newDrinkResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{
		"drinks": out,
		"count":  len(out),
		"loaded": h.svc.Store.Loaded(),
	})
}

// ListDrinkTypes returns the distinct drink types in the collection
func (h *Handler) ListDrinkTypes(c *gin.Context) {
	types := h.svc.Filter.Types(h.svc.Store.Drinks())
	if types == nil {
		types = []domain.DrinkType{}
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// CreateDrink validates and persists a new recipe
func (h *Handler) CreateDrink(c *gin.Context) {
	var req domain.Recipe
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	created, err := h.svc.Store.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDrinkResponse(created))
}

// RandomDrink returns a recipe picked by the drink service
func (h *Handler) RandomDrink(c *gin.Context) {
	drink, ok := h.svc.Store.FetchRandom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": h.svc.Errors.Current()})
		return
	}
	c.JSON(http.StatusOK, newDrinkResponse(drink))
}

type generateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// GenerateDrink invents a recipe from the posted ingredient names
func (h *Handler) GenerateDrink(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	drink, err := h.svc.Store.GenerateFromIngredients(c.Request.Context(), req.Ingredients)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": usecase.MsgGenerateFailed})
		return
	}
	c.JSON(http.StatusCreated, newDrinkResponse(drink))
}

// ToggleFavorite flips the favorite flag of a recipe
func (h *Handler) ToggleFavorite(c *gin.Context) {
	drink, ok := h.svc.Store.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": h.svc.Errors.Current()})
		return
	}
	c.JSON(http.StatusOK, newDrinkResponse(drink))
}

// GetDrink resolves a recipe id. By default it waits for the lookup window;
// with wait=false an unresolved lookup answers 202 straight away.
func (h *Handler) GetDrink(c *gin.Context) {
	id := c.Param("id")

	wait := true
	if raw := c.Query("wait"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wait must be a boolean"})
			return
		}
		wait = parsed
	}

	var result usecase.LookupResult
	if wait {
		result = h.svc.Lookup.Find(c.Request.Context(), id)
	} else {
		pending := h.svc.Lookup.Start(id)
		result = pending.Result()
		pending.Cancel()
	}

	switch result.Status {
	case usecase.LookupFound:
		c.JSON(http.StatusOK, newDrinkResponse(result.Recipe))
	case usecase.LookupNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "drink not found", "id": id})
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": result.Status, "id": id})
	}
}

// ListIngredients returns the ingredient choices for drink generation
func (h *Handler) ListIngredients(c *gin.Context) {
	choices, err := h.svc.Store.IngredientChoices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]ingredientResponse, len(choices))
	for i, choice := range choices {
		out[i] = ingredientResponse{IngredientChoice: choice, ImageURL: drinkapi.PhotoURL(choice.ImageID)}
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": out})
}

// GetError returns the current global error message
func (h *Handler) GetError(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.svc.Errors.Current()})
}

// ClearError dismisses the global error message
func (h *Handler) ClearError(c *gin.Context) {
	h.svc.Errors.Clear()
	c.Status(http.StatusNoContent)
}

// OpenImageSession starts a new image search session
func (h *Handler) OpenImageSession(c *gin.Context) {
	session := h.svc.Sessions.Open()
	c.JSON(http.StatusCreated, newSessionResponse(session.Snapshot()))
}

// GetImageSession returns the state of an image search session
func (h *Handler) GetImageSession(c *gin.Context) {
	session, err := h.svc.Sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session.Snapshot()))
}

// CloseImageSession tears an image search session down
func (h *Handler) CloseImageSession(c *gin.Context) {
	if err := h.svc.Sessions.Close(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setQueryRequest struct {
	Query *string `json:"query" binding:"required"`
}

// SetImageQuery changes the query of an image search session
func (h *Handler) SetImageQuery(c *gin.Context) {
	session, err := h.svc.Sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req setQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	session.SetQuery(*req.Query)
	c.JSON(http.StatusAccepted, newSessionResponse(session.Snapshot()))
}

type setPageRequest struct {
	Page int `json:"page" binding:"required"`
}

// SetImagePage changes the page of an image search session
func (h *Handler) SetImagePage(c *gin.Context) {
	session, err := h.svc.Sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req setPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := session.SetPage(req.Page); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, newSessionResponse(session.Snapshot()))
}

// respondError maps domain errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": "drink service unavailable"})
	default:
		h.log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
