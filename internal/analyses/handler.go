package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/shared/server/middleware"
	"resumatch-backend/internal/shared/server/respond"
	"resumatch-backend/internal/usage"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type createAnalysisRequest struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
}

func (h *Handler) createAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, req.ResumeText, req.JobDescriptionText)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume or job description too short", validationDetails(verr))
		case errors.Is(err, ErrUnauthorized):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your analysis limit. Upgrade your plan to continue.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze resume", nil)
		}
		return
	}

	c.Set("analysisId", analysis.ID)
	respond.JSON(c, http.StatusCreated, analysis)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		case errors.Is(err, ErrUnauthorized):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	list, err := h.Svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"analyses": list})
}

func validationDetails(verr *ValidationError) []map[string]any {
	details := make([]map[string]any, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		d := map[string]any{
			"field": issue.Field,
			"issue": issue.Issue,
		}
		if issue.Shortfall > 0 {
			d["shortfall"] = issue.Shortfall
		}
		details = append(details, d)
	}
	return details
}
