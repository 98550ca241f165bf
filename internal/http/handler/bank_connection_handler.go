package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

type BankConnectionHandler struct {
	connService *service.BankConnectionService
	txnService  *service.BankTransactionService
	logger      *zap.Logger
}

func NewBankConnectionHandler(
	connService *service.BankConnectionService,
	txnService *service.BankTransactionService,
	logger *zap.Logger,
) *BankConnectionHandler {
	return &BankConnectionHandler{
		connService: connService,
		txnService:  txnService,
		logger:      logger,
	}
}

// List godoc
// @Summary List bank connections
// @Tags Banking
// @Produce json
// @Success 200 {array} domain.BankConnectionDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections [get]
func (h *BankConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	conns, err := h.connService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list bank connections", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list bank connections")
		return
	}

	respondJSON(w, http.StatusOK, conns)
}

// GetByID godoc
// @Summary Get bank connection
// @Tags Banking
// @Produce json
// @Param id path string true "Connection ID" format(uuid)
// @Success 200 {object} domain.BankConnectionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections/{id} [get]
func (h *BankConnectionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid connection ID format")
		return
	}

	conn, err := h.connService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get bank connection")
		return
	}

	respondJSON(w, http.StatusOK, conn)
}

// Create godoc
// @Summary Create bank connection
// @Tags Banking
// @Accept json
// @Produce json
// @Param request body domain.CreateBankConnectionRequest true "Connection data"
// @Success 201 {object} domain.BankConnectionDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections [post]
func (h *BankConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBankConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	conn, err := h.connService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err, "Failed to create bank connection")
		return
	}

	respondJSON(w, http.StatusCreated, conn)
}

// Update godoc
// @Summary Update bank connection
// @Tags Banking
// @Accept json
// @Produce json
// @Param id path string true "Connection ID" format(uuid)
// @Param request body domain.UpdateBankConnectionRequest true "Fields to update"
// @Success 200 {object} domain.BankConnectionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections/{id} [put]
func (h *BankConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid connection ID format")
		return
	}

	var req domain.UpdateBankConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	conn, err := h.connService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err, "Failed to update bank connection")
		return
	}

	respondJSON(w, http.StatusOK, conn)
}

// Delete godoc
// @Summary Delete bank connection
// @Tags Banking
// @Param id path string true "Connection ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections/{id} [delete]
func (h *BankConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid connection ID format")
		return
	}

	if err := h.connService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete bank connection")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Sync godoc
// @Summary Sync one bank connection
// @Description Pull fresh deposits for a single connection
// @Tags Banking
// @Produce json
// @Param id path string true "Connection ID" format(uuid)
// @Success 200 {object} domain.SyncResultDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /finance/bank-connections/{id}/sync [post]
func (h *BankConnectionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid connection ID format")
		return
	}

	result, err := h.txnService.SyncConnection(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to sync bank connection")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
