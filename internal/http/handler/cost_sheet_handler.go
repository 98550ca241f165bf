package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/auth"
	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/repository"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

type CostSheetHandler struct {
	sheetService      *service.CostSheetService
	attachmentService *service.AttachmentService
	maxUploadBytes    int64
	logger            *zap.Logger
}

func NewCostSheetHandler(
	sheetService *service.CostSheetService,
	attachmentService *service.AttachmentService,
	maxUploadBytes int64,
	logger *zap.Logger,
) *CostSheetHandler {
	return &CostSheetHandler{
		sheetService:      sheetService,
		attachmentService: attachmentService,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// costSheetFilters reads the shared filter query parameters.
func costSheetFilters(r *http.Request) *repository.CostSheetFilters {
	q := r.URL.Query()
	filters := &repository.CostSheetFilters{
		Status:         q.Get("status"),
		CustomerName:   q.Get("customerName"),
		ProjectName:    q.Get("projectName"),
		ProjectManager: q.Get("projectManager"),
		SalesPerson:    q.Get("salesPerson"),
		SheetNumber:    q.Get("sheetNumber"),
		LeadNumber:     q.Get("leadNumber"),
		Period:         repository.Period(q.Get("period")),
	}
	if s := q.Get("startDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filters.CustomStart = &t
		}
	}
	if s := q.Get("endDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filters.CustomEnd = &t
		}
	}
	return filters
}

// List godoc
// @Summary List cost sheets
// @Description Get paginated cost sheets with status, text and period filters
// @Tags CostSheets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(PENDING, SUBMITTED, APPROVED, REJECTED, REVERTED)
// @Param customerName query string false "Filter by customer name"
// @Param projectName query string false "Filter by project name"
// @Param projectManager query string false "Filter by project manager"
// @Param salesPerson query string false "Filter by sales person"
// @Param sheetNumber query string false "Filter by sheet number"
// @Param leadNumber query string false "Filter by lead number"
// @Param period query string false "Relative date window" Enums(last_month, last_3_months, last_6_months, last_year, last_financial_year, custom)
// @Param startDate query string false "Custom window start (YYYY-MM-DD)"
// @Param endDate query string false "Custom window end (YYYY-MM-DD)"
// @Success 200 {object} domain.PagedResponse[domain.CostSheetDTO]
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets [get]
func (h *CostSheetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.sheetService.List(r.Context(), page, pageSize, costSheetFilters(r))
	if err != nil {
		h.logger.Error("failed to list cost sheets", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list cost sheets")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get cost sheet
// @Tags CostSheets
// @Produce json
// @Param id path string true "Cost sheet ID" format(uuid)
// @Success 200 {object} domain.CostSheetDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id} [get]
func (h *CostSheetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost sheet ID format")
		return
	}

	sheet, err := h.sheetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get cost sheet")
		return
	}

	respondJSON(w, http.StatusOK, sheet)
}

// Create godoc
// @Summary Create cost sheet
// @Description Draft a cost sheet with priced line items; submit in the same call with submit=true
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param request body domain.CreateCostSheetRequest true "Cost sheet data"
// @Success 201 {object} domain.CostSheetDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets [post]
func (h *CostSheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCostSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	sheet, err := h.sheetService.Create(r.Context(), &req, userCtx.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to create cost sheet")
		return
	}

	respondJSON(w, http.StatusCreated, sheet)
}

// Update godoc
// @Summary Update cost sheet
// @Description Update a pending or rejected cost sheet; submit=true sends it back for review
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param request body domain.UpdateCostSheetRequest true "Fields to update"
// @Success 200 {object} domain.CostSheetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id} [put]
func (h *CostSheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost sheet ID format")
		return
	}

	var req domain.UpdateCostSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	sheet, err := h.sheetService.Update(r.Context(), id, &req, userCtx.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to update cost sheet")
		return
	}

	respondJSON(w, http.StatusOK, sheet)
}

// Delete godoc
// @Summary Delete cost sheet
// @Description Delete a pending or rejected cost sheet
// @Tags CostSheets
// @Param id path string true "Cost sheet ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id} [delete]
func (h *CostSheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost sheet ID format")
		return
	}

	if err := h.sheetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete cost sheet")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Approve godoc
// @Summary Approve cost sheet
// @Description Approve a submitted cost sheet (admin only)
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param request body domain.ReviewCostSheetRequest false "Optional reviewer comments"
// @Success 200 {object} domain.CostSheetDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id}/approve [post]
func (h *CostSheetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.sheetService.Approve)
}

// Reject godoc
// @Summary Reject cost sheet
// @Description Reject a submitted cost sheet with mandatory comments (admin only)
// @Tags CostSheets
// @Accept json
// @Produce json
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param request body domain.ReviewCostSheetRequest true "Reviewer comments"
// @Success 200 {object} domain.CostSheetDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id}/reject [post]
func (h *CostSheetHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.sheetService.Reject)
}

type reviewFunc func(ctx context.Context, id uuid.UUID, comments, reviewer string) (*domain.CostSheetDTO, error)

func (h *CostSheetHandler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost sheet ID format")
		return
	}

	var req domain.ReviewCostSheetRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	userCtx := auth.MustFromContext(r.Context())
	sheet, err := fn(r.Context(), id, req.Comments, userCtx.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to review cost sheet")
		return
	}

	respondJSON(w, http.StatusOK, sheet)
}

// UploadAttachment godoc
// @Summary Upload cost sheet attachment
// @Tags CostSheets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param file formData file true "File to attach"
// @Success 201 {object} domain.AttachmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id}/attachments [post]
func (h *CostSheetHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost sheet ID format")
		return
	}

	// Ensure the sheet exists before storing anything.
	if _, err := h.sheetService.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to get cost sheet")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "A file upload named 'file' is required")
		return
	}
	defer file.Close()

	userCtx := auth.MustFromContext(r.Context())
	attachment, err := h.attachmentService.Upload(r.Context(),
		domain.AttachmentOwnerCostSheet, id,
		header.Filename, header.Header.Get("Content-Type"), file, userCtx.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to upload attachment")
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// DownloadAttachment godoc
// @Summary Download cost sheet attachment
// @Tags CostSheets
// @Produce octet-stream
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id}/attachments/{attachmentId} [get]
func (h *CostSheetHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	downloadAttachment(w, r, h.attachmentService, h.logger)
}

// DeleteAttachment godoc
// @Summary Delete cost sheet attachment
// @Tags CostSheets
// @Param id path string true "Cost sheet ID" format(uuid)
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/{id}/attachments/{attachmentId} [delete]
func (h *CostSheetHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	deleteAttachment(w, r, h.attachmentService)
}

// ExportReport godoc
// @Summary Export cost sheets
// @Description Download the filtered cost sheets as a CSV report
// @Tags CostSheets
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param customerName query string false "Filter by customer name"
// @Param period query string false "Relative date window"
// @Param startDate query string false "Custom window start (YYYY-MM-DD)"
// @Param endDate query string false "Custom window end (YYYY-MM-DD)"
// @Success 200 {file} text/csv
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /cost-sheets/export [get]
func (h *CostSheetHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("cost-sheets-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.sheetService.ExportCSV(r.Context(), costSheetFilters(r), w); err != nil {
		h.logger.Error("failed to export cost sheets", zap.Error(err))
	}
}
