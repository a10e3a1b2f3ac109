package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/application"
	"github.com/farbari/farbari-api/internal/domain/entity"
	"github.com/farbari/farbari-api/internal/interface/middleware"
	"github.com/farbari/farbari-api/pkg/response"
	"github.com/farbari/farbari-api/pkg/validation"
)

type InterestHandler struct {
	Interests *application.InterestService
	Logger    *logrus.Logger
}

func NewInterestHandler(interests *application.InterestService, logger *logrus.Logger) *InterestHandler {
	return &InterestHandler{Interests: interests, Logger: logger}
}

type applyRequest struct {
	PostID        string `json:"post_id" binding:"required,uuid"`
	Message       string `json:"message" binding:"required,min=20,max=1000"`
	ApplicantInfo struct {
		Experience   string `json:"experience" binding:"omitempty,oneof=first-time some experienced"`
		LivingSpace  string `json:"living_space" binding:"omitempty,oneof=apartment house farm other"`
		HasYard      bool   `json:"has_yard"`
		HasOtherPets bool   `json:"has_other_pets"`
		HasChildren  bool   `json:"has_children"`
		WorkSchedule string `json:"work_schedule" binding:"omitempty,max=100"`
	} `json:"applicant_info"`
}

type interestStatusRequest struct {
	Status        string `json:"status" binding:"required,oneof=shortlisted approved rejected"`
	OwnerResponse string `json:"owner_response" binding:"omitempty,max=1000"`
}

func (h *InterestHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	info := entity.ApplicantInfo{
		Experience:   req.ApplicantInfo.Experience,
		LivingSpace:  req.ApplicantInfo.LivingSpace,
		HasYard:      req.ApplicantInfo.HasYard,
		HasOtherPets: req.ApplicantInfo.HasOtherPets,
		HasChildren:  req.ApplicantInfo.HasChildren,
		WorkSchedule: req.ApplicantInfo.WorkSchedule,
	}
	in, err := h.Interests.Apply(c.Request.Context(), req.PostID, c.GetString(middleware.CtxUserID), req.Message, info)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, in, "application submitted", nil)
}

func (h *InterestHandler) Get(c *gin.Context) {
	in, err := h.Interests.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), middleware.Role(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, in, "application", nil)
}

// ListForPost returns the applications on one of the caller's posts.
func (h *InterestHandler) ListForPost(c *gin.Context) {
	items, page, err := h.Interests.ListForPost(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.CtxUserID),
		middleware.Role(c),
		interestFilter(c),
	)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "applications", page)
}

func (h *InterestHandler) Mine(c *gin.Context) {
	items, page, err := h.Interests.ListMine(c.Request.Context(), c.GetString(middleware.CtxUserID), interestFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "applications", page)
}

func (h *InterestHandler) UpdateStatus(c *gin.Context) {
	var req interestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in, err := h.Interests.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.CtxUserID),
		middleware.Role(c),
		entity.InterestStatus(req.Status),
		req.OwnerResponse,
	)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, in, "application status updated", nil)
}

func (h *InterestHandler) Withdraw(c *gin.Context) {
	in, err := h.Interests.Withdraw(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, in, "application withdrawn", nil)
}

func interestFilter(c *gin.Context) entity.InterestFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return entity.InterestFilter{
		Status: entity.InterestStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}
}
