package diagnosis

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/pkg/logx"
)

// PDFRenderer renders a finished report as a PDF document.
type PDFRenderer interface {
	Render(res *ReportResult) ([]byte, error)
}

type Handler struct {
	svc Service
	pdf PDFRenderer
}

func NewHandler(svc Service, pdf PDFRenderer) *Handler {
	return &Handler{svc: svc, pdf: pdf}
}

func (h *Handler) PredictQuick(w http.ResponseWriter, r *http.Request) {
	symptoms := strings.TrimSpace(r.FormValue("symptoms"))
	if symptoms == "" {
		writeError(w, http.StatusBadRequest, "symptoms is required")
		return
	}

	res, err := h.svc.Start(r.Context(), symptoms)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	answer := strings.TrimSpace(r.FormValue("answer"))
	if sessionID == "" || answer == "" {
		writeError(w, http.StatusBadRequest, "session_id and answer are required")
		return
	}

	res, err := h.svc.Answer(r.Context(), sessionID, answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) AnalyzeDetailed(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	res, err := h.svc.Report(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.FormValue("format") == "pdf" && h.pdf != nil {
		doc, err := h.pdf.Render(res)
		if err != nil {
			logx.Error().Err(err).Msg("pdf rendering failed")
			writeError(w, http.StatusInternalServerError, "failed to render PDF report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="diagnosis_report.pdf"`)
		w.Write(doc)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/disease/predict-quick", h.PredictQuick)
	r.Post("/disease/answer-question", h.AnswerQuestion)
	r.Post("/disease/analyze-detailed", h.AnalyzeDetailed)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := errx.Status(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Msg("diagnosis request failed")
	}
	// Gateway failures are surfaced with the underlying message so the
	// caller can tell a quota error from a timeout and retry.
	writeError(w, status, err.Error())
}
