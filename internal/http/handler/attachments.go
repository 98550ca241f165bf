package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/service"
)

// downloadAttachment streams a stored attachment back to the client.
func downloadAttachment(w http.ResponseWriter, r *http.Request, attachments *service.AttachmentService, logger *zap.Logger) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID format")
		return
	}

	attachment, rc, err := attachments.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to download attachment")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	}

	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("attachment stream interrupted",
			zap.String("attachment_id", id.String()),
			zap.Error(err),
		)
	}
}

func deleteAttachment(w http.ResponseWriter, r *http.Request, attachments *service.AttachmentService) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID format")
		return
	}

	if err := attachments.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete attachment")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
