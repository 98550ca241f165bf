package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/auth"
	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

type ReceiptVoucherHandler struct {
	voucherService    *service.ReceiptVoucherService
	attachmentService *service.AttachmentService
	maxUploadBytes    int64
	logger            *zap.Logger
}

func NewReceiptVoucherHandler(
	voucherService *service.ReceiptVoucherService,
	attachmentService *service.AttachmentService,
	maxUploadBytes int64,
	logger *zap.Logger,
) *ReceiptVoucherHandler {
	return &ReceiptVoucherHandler{
		voucherService:    voucherService,
		attachmentService: attachmentService,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// List godoc
// @Summary List receipt vouchers
// @Tags Finance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(50)
// @Param customerName query string false "Filter by customer name"
// @Success 200 {object} domain.PagedResponse[domain.ReceiptVoucherDTO]
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers [get]
func (h *ReceiptVoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.voucherService.List(r.Context(), page, pageSize, r.URL.Query().Get("customerName"))
	if err != nil {
		h.logger.Error("failed to list receipt vouchers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list receipt vouchers")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get receipt voucher
// @Tags Finance
// @Produce json
// @Param id path string true "Voucher ID" format(uuid)
// @Success 200 {object} domain.ReceiptVoucherDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers/{id} [get]
func (h *ReceiptVoucherHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	voucher, err := h.voucherService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get receipt voucher")
		return
	}

	respondJSON(w, http.StatusOK, voucher)
}

// Create godoc
// @Summary Create receipt voucher
// @Description Records a received payment and applies its adjustments against open invoices
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body domain.CreateReceiptVoucherRequest true "Voucher data"
// @Success 201 {object} domain.ReceiptVoucherDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers [post]
func (h *ReceiptVoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReceiptVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	voucher, err := h.voucherService.Create(r.Context(), &req, userCtx.Email)
	if err != nil {
		respondServiceError(w, err, "Failed to create receipt voucher")
		return
	}

	respondJSON(w, http.StatusCreated, voucher)
}

// UploadAttachment godoc
// @Summary Upload a voucher attachment
// @Tags Finance
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Voucher ID" format(uuid)
// @Param file formData file true "File to attach"
// @Success 201 {object} domain.AttachmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers/{id}/attachments [post]
func (h *ReceiptVoucherHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	if _, err := h.voucherService.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to get receipt voucher")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file or file too large")
		return
	}
	defer file.Close()

	userCtx := auth.MustFromContext(r.Context())
	attachment, err := h.attachmentService.Upload(
		r.Context(),
		domain.AttachmentOwnerReceiptVoucher,
		id,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		userCtx.Email,
	)
	if err != nil {
		h.logger.Error("failed to upload voucher attachment", zap.Error(err), zap.String("voucher_id", id.String()))
		respondServiceError(w, err, "Failed to upload attachment")
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// DownloadAttachment godoc
// @Summary Download a voucher attachment
// @Tags Finance
// @Produce octet-stream
// @Param id path string true "Voucher ID" format(uuid)
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers/{id}/attachments/{attachmentId} [get]
func (h *ReceiptVoucherHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	downloadAttachment(w, r, h.attachmentService, h.logger)
}

// DeleteAttachment godoc
// @Summary Delete a voucher attachment
// @Tags Finance
// @Param id path string true "Voucher ID" format(uuid)
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/receipt-vouchers/{id}/attachments/{attachmentId} [delete]
func (h *ReceiptVoucherHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	deleteAttachment(w, r, h.attachmentService)
}
