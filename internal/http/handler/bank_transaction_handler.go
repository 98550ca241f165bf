package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

type BankTransactionHandler struct {
	txnService     *service.BankTransactionService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewBankTransactionHandler(txnService *service.BankTransactionService, maxUploadBytes int64, logger *zap.Logger) *BankTransactionHandler {
	return &BankTransactionHandler{
		txnService:     txnService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// List godoc
// @Summary List bank transactions
// @Tags Banking
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(50)
// @Param status query string false "Filter by status" Enums(FOR_REVIEW, CATEGORIZED, EXCLUDED)
// @Param customerName query string false "Filter by customer name"
// @Success 200 {object} domain.PagedResponse[domain.BankTransactionDTO]
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions [get]
func (h *BankTransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.BankTransactionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.BankTransactionStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid transaction status")
			return
		}
		status = &s
	}

	result, err := h.txnService.List(r.Context(), page, pageSize, status, r.URL.Query().Get("customerName"))
	if err != nil {
		h.logger.Error("failed to list bank transactions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list bank transactions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get bank transaction
// @Tags Banking
// @Produce json
// @Param id path string true "Transaction ID" format(uuid)
// @Success 200 {object} domain.BankTransactionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/{id} [get]
func (h *BankTransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	txn, err := h.txnService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get bank transaction")
		return
	}

	respondJSON(w, http.StatusOK, txn)
}

// Sync godoc
// @Summary Sync all active bank connections
// @Description Pull fresh deposits from every active connection's provider
// @Tags Banking
// @Produce json
// @Success 200 {object} domain.SyncResultDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/sync [post]
func (h *BankTransactionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.txnService.Sync(r.Context())
	if err != nil {
		h.logger.Error("bank sync failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to sync bank transactions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UploadStatement godoc
// @Summary Upload a bank statement
// @Description Import deposits from a CSV statement for a connection
// @Tags Banking
// @Accept multipart/form-data
// @Produce json
// @Param connectionId formData string true "Connection ID" format(uuid)
// @Param format formData string false "Statement format" Enums(icici, idfc, bofa, generic)
// @Param file formData file true "Statement file (CSV)"
// @Success 200 {object} domain.StatementUploadResultDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/upload [post]
func (h *BankTransactionHandler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	connectionID, err := uuid.Parse(r.FormValue("connectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing connectionId")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing statement file")
		return
	}
	defer file.Close()

	result, err := h.txnService.UploadStatement(r.Context(), connectionID, r.FormValue("format"), file)
	if err != nil {
		respondServiceError(w, err, "Failed to import statement")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Match godoc
// @Summary Match a deposit against receipt vouchers
// @Description Reconciles the selected unreconciled vouchers against the deposit and marks it categorized
// @Tags Banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID" format(uuid)
// @Param request body domain.MatchTransactionRequest true "Receipt vouchers to reconcile"
// @Success 200 {object} domain.BankTransactionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/{id}/match [post]
func (h *BankTransactionHandler) Match(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var req domain.MatchTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	txn, err := h.txnService.Match(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err, "Failed to match bank transaction")
		return
	}

	respondJSON(w, http.StatusOK, txn)
}

// Exclude godoc
// @Summary Exclude a deposit from reconciliation
// @Tags Banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID" format(uuid)
// @Param request body domain.ExcludeTransactionRequest true "Exclusion reason"
// @Success 200 {object} domain.BankTransactionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/{id}/exclude [post]
func (h *BankTransactionHandler) Exclude(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var req domain.ExcludeTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	txn, err := h.txnService.Exclude(r.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(w, err, "Failed to exclude bank transaction")
		return
	}

	respondJSON(w, http.StatusOK, txn)
}

// UndoExclude godoc
// @Summary Return an excluded deposit to review
// @Tags Banking
// @Produce json
// @Param id path string true "Transaction ID" format(uuid)
// @Success 200 {object} domain.BankTransactionDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-transactions/{id}/undo-exclude [post]
func (h *BankTransactionHandler) UndoExclude(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	txn, err := h.txnService.UndoExclude(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to restore bank transaction")
		return
	}

	respondJSON(w, http.StatusOK, txn)
}
