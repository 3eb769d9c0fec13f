package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download serves every list as CSV inside one zip archive. The archive is built in memory
// so a failed listing still yields a proper error status.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	if err := h.svc.Bundle(r.Context(), &buf); err != nil {
		httpx.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"dealdesk_export_%s.zip\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export archive", "error", err)
	}
}
