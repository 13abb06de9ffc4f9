package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marco/workyard/internal/api/middleware"
	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
	"github.com/marco/workyard/internal/report"
)

// ReportHandler handles report generation, scheduling, and retrieval endpoints.
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// List handles GET /api/v1/reports
//
// Query parameters:
//   - companyId: filter by company
//   - type: filter by report type
//   - status: filter by job status
func (h *ReportHandler) List(c *gin.Context) {
	filter := domain.ReportJobFilter{
		CompanyID: c.Query("companyId"),
		Type:      domain.ReportType(c.Query("type")),
		Status:    domain.ReportStatus(c.Query("status")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown report type %q", filter.Type)})
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown report status %q", filter.Status)})
		return
	}

	jobs, err := h.svc.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": jobs,
		"count":   len(jobs),
	})
}

// Templates handles GET /api/v1/reports/templates and returns the static
// catalog of report types.
func (h *ReportHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": report.Catalog(),
	})
}

// Generate handles POST /api/v1/reports/generate. Generation is asynchronous:
// the response carries the new job in GENERATING state and callers poll Get
// until it reaches a terminal status.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req report.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.svc.Generate(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"reportId": job.ID,
		"status":   job.Status,
	})
}

// Schedule handles POST /api/v1/reports/schedule and creates a recurring
// report template.
func (h *ReportHandler) Schedule(c *gin.Context) {
	var req report.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tpl, err := h.svc.Schedule(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"reportId": tpl.ID,
		"status":   tpl.Status,
		"schedule": tpl.Schedule,
	})
}

// Get handles GET /api/v1/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Download handles GET /api/v1/reports/:id/download and streams the artifact
// of a completed report as an attachment.
func (h *ReportHandler) Download(c *gin.Context) {
	rc, job, err := h.svc.Download(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(job)))
	c.Header("Content-Type", job.Format.ContentType())
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		logger.CtxError(c.Request.Context(), "Failed to stream artifact for report %s: %v", job.ID, err)
	}
}

// Delete handles DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}

// respondError maps service errors onto HTTP statuses. Internal faults are
// logged with detail but returned opaque.
func (h *ReportHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrValidation), errors.Is(err, report.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, report.ErrAccessDenied), errors.Is(err, report.ErrEntitlementRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, report.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	default:
		logger.CtxError(c.Request.Context(), "Report request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
