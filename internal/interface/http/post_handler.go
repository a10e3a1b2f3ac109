package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/application"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/internal/interface/middleware"
	"github.com/farbari/farbari-api/pkg/response"
	"github.com/farbari/farbari-api/pkg/validation"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type PostHandler struct {
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Logger: logger}
}

type petRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=50"`
	Species      string   `json:"species" binding:"required,oneof=dog cat bird rabbit other"`
	Breed        string   `json:"breed" binding:"omitempty,max=50"`
	AgeValue     int      `json:"age_value" binding:"gte=0"`
	AgeUnit      string   `json:"age_unit" binding:"required,oneof=months years"`
	Gender       string   `json:"gender" binding:"required,oneof=male female unknown"`
	Size         string   `json:"size" binding:"required,oneof=small medium large extra-large"`
	Color        string   `json:"color" binding:"omitempty,max=30"`
	IsVaccinated bool     `json:"is_vaccinated"`
	IsNeutered   bool     `json:"is_neutered"`
	HealthStatus string   `json:"health_status" binding:"omitempty,oneof=excellent good fair needs-attention"`
	Temperament  []string `json:"temperament"`
	GoodWithKids bool     `json:"good_with_children"`
	GoodWithDogs bool     `json:"good_with_dogs"`
	GoodWithCats bool     `json:"good_with_cats"`
	Energy       string   `json:"energy" binding:"omitempty,oneof=low moderate high"`
}

type locationRequest struct {
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country"`
}

type createPostRequest struct {
	Title       string          `json:"title" binding:"required,min=5,max=120"`
	Description string          `json:"description" binding:"required,min=20,max=2000"`
	Pet         petRequest      `json:"pet" binding:"required"`
	Location    locationRequest `json:"location" binding:"required"`
	AdoptionFee float64         `json:"adoption_fee" binding:"gte=0"`
	Urgency     string          `json:"urgency" binding:"omitempty,oneof=low medium high emergency"`
	Tags        []string        `json:"tags" binding:"omitempty,max=10"`
}

type updatePostRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=5,max=120"`
	Description *string          `json:"description" binding:"omitempty,min=20,max=2000"`
	Pet         *petRequest      `json:"pet"`
	Location    *locationRequest `json:"location"`
	AdoptionFee *float64         `json:"adoption_fee" binding:"omitempty,gte=0"`
	Urgency     *string          `json:"urgency" binding:"omitempty,oneof=low medium high emergency"`
	Tags        []string         `json:"tags" binding:"omitempty,max=10"`
}

type postStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active paused adopted removed"`
}

type approvePostRequest struct {
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`
}

func (r petRequest) toEntity() entity.Pet {
	return entity.Pet{
		Name:         r.Name,
		Species:      r.Species,
		Breed:        r.Breed,
		AgeValue:     r.AgeValue,
		AgeUnit:      r.AgeUnit,
		Gender:       r.Gender,
		Size:         r.Size,
		Color:        r.Color,
		IsVaccinated: r.IsVaccinated,
		IsNeutered:   r.IsNeutered,
		HealthStatus: r.HealthStatus,
		Temperament:  r.Temperament,
		GoodWithKids: r.GoodWithKids,
		GoodWithDogs: r.GoodWithDogs,
		GoodWithCats: r.GoodWithCats,
		Energy:       r.Energy,
	}
}

func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	urgency := entity.UrgencyMedium
	if req.Urgency != "" {
		urgency = entity.Urgency(req.Urgency)
	}
	p := &entity.Post{
		OwnerID:     c.GetString(middleware.CtxUserID),
		Title:       req.Title,
		Description: req.Description,
		Pet:         req.Pet.toEntity(),
		Location:    entity.Location{City: req.Location.City, State: req.Location.State, Country: req.Location.Country},
		AdoptionFee: req.AdoptionFee,
		Urgency:     urgency,
		Tags:        req.Tags,
	}

	created, err := h.Posts.Create(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created, "post created", nil)
}

func (h *PostHandler) Get(c *gin.Context) {
	viewerID := c.GetString(middleware.CtxUserID)
	p, err := h.Posts.Get(c.Request.Context(), c.Param("id"), viewerID, middleware.Role(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post", nil)
}

func (h *PostHandler) List(c *gin.Context) {
	f := listFilter(c)
	posts, page, err := h.Posts.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts", page)
}

// Mine lists the caller's own posts regardless of approval or lifecycle
// state; ?status= narrows to one state.
func (h *PostHandler) Mine(c *gin.Context) {
	f := listFilter(c)
	f.OwnerID = c.GetString(middleware.CtxUserID)
	f.ApprovedOnly = false
	f.Status = entity.PostStatus(c.Query("status"))
	posts, page, err := h.Posts.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts", page)
}

type favoriteResponse struct {
	Favorited     bool `json:"favorited"`
	FavoriteCount int  `json:"favorite_count"`
}

// Favorite toggles the caller's saved mark on a listing.
func (h *PostHandler) Favorite(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	favorited, count, err := h.Posts.ToggleFavorite(c.Request.Context(), c.Param("id"), userID, middleware.Role(c))
	if err != nil {
		fail(c, err)
		return
	}
	msg := "post removed from favorites"
	if favorited {
		msg = "post added to favorites"
	}
	response.Success(c, http.StatusOK, favoriteResponse{Favorited: favorited, FavoriteCount: count}, msg, nil)
}

// Favorites lists the caller's saved listings.
func (h *PostHandler) Favorites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}
	posts, pagination, err := h.Posts.ListFavorites(c.Request.Context(), c.GetString(middleware.CtxUserID), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts, "favorite posts", pagination)
}

func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	up := repo.PostUpdate{Title: req.Title, Description: req.Description, AdoptionFee: req.AdoptionFee, Tags: req.Tags}
	if req.Pet != nil {
		pet := req.Pet.toEntity()
		up.Pet = &pet
	}
	if req.Location != nil {
		up.Location = &entity.Location{City: req.Location.City, State: req.Location.State, Country: req.Location.Country}
	}
	if req.Urgency != nil {
		u := entity.Urgency(*req.Urgency)
		up.Urgency = &u
	}

	p, err := h.Posts.Update(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), middleware.Role(c), up)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post updated", nil)
}

func (h *PostHandler) UpdateStatus(c *gin.Context) {
	var req postStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Posts.UpdateStatus(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), middleware.Role(c), entity.PostStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post status updated", nil)
}

func (h *PostHandler) Approve(c *gin.Context) {
	var req approvePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Posts.Approve(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), req.Approved, req.RejectionReason)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "post approved"
	if !req.Approved {
		msg = "post rejected"
	}
	response.Success(c, http.StatusOK, p, msg, nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), middleware.Role(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "post deleted", nil)
}

func (h *PostHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	defer file.Close()
	if header.Size > maxPhotoSize {
		response.Error[any](c, http.StatusBadRequest, "photo exceeds the 10MB limit", nil)
		return
	}

	p, err := h.Posts.UploadPhoto(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "photo uploaded", nil)
}

func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	posts, err := h.Posts.Search(c.Request.Context(), q, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts, "search results", nil)
}

func listFilter(c *gin.Context) entity.PostFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	f := entity.PostFilter{
		ApprovedOnly: true,
		Status:       entity.PostActive,
		Species:      c.Query("species"),
		Size:         c.Query("size"),
		Gender:       c.Query("gender"),
		Energy:       c.Query("energy"),
		City:         c.Query("city"),
		State:        c.Query("state"),
		Urgency:      entity.Urgency(c.Query("urgency")),
		Page:         page,
		Limit:        limit,
		SortBy:       c.DefaultQuery("sort_by", "created_at"),
		SortDesc:     c.DefaultQuery("order", "desc") == "desc",
	}
	if v, err := strconv.ParseFloat(c.Query("min_fee"), 64); err == nil {
		f.MinFee = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_fee"), 64); err == nil {
		f.MaxFee = &v
	}
	if v, err := strconv.ParseBool(c.Query("vaccinated")); err == nil {
		f.IsVaccinated = &v
	}
	if v, err := strconv.ParseBool(c.Query("neutered")); err == nil {
		f.IsNeutered = &v
	}
	return f
}
