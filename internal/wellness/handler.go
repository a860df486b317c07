package wellness

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/pkg/logx"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Health reports service status and the endpoint map.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "online",
		"service":           "Women's Wellness API",
		"gemini_configured": h.svc.Configured(),
		"endpoints": map[string]string{
			"food_analysis":         "/analyse",
			"pregnancy_chat":        "/pregnancy/chat",
			"pregnancy_tips":        "/pregnancy/tips",
			"pregnancy_affirmation": "/pregnancy/affirmation",
			"disease_predictor":     "/disease/predict-quick",
			"test_gemini":           "/test-gemini",
		},
	})
}

func (h *Handler) TestGemini(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.Probe(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "success",
		"message":       "Gemini is working",
		"test_response": reply,
	})
}

func (h *Handler) AnalyseFood(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	in := FoodInput{
		Name:        strings.TrimSpace(r.FormValue("food_name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Allergies:   strings.TrimSpace(r.FormValue("allergies")),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			writeError(w, http.StatusBadRequest, "invalid file type")
			return
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read image file")
			return
		}
		if !validImage(buf.Bytes()) {
			writeError(w, http.StatusBadRequest, "invalid image file")
			return
		}
		in.ImageData = buf.Bytes()
		in.ImageMIME = contentType
		logx.Info().Str("filename", header.Filename).Msg("image uploaded for analysis")
	}

	if in.ImageData == nil && in.Name == "" {
		writeError(w, http.StatusBadRequest, "provide image or food name")
		return
	}

	res, err := h.svc.AnalyzeFood(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// validImage is a pure predicate: the bytes must decode as a known image
// format.
func validImage(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}

func (h *Handler) PregnancyChat(w http.ResponseWriter, r *http.Request) {
	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.svc.PregnancyChat(r.Context(), message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "reply": reply})
}

func (h *Handler) PregnancyTips(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.FormValue("topic"))
	if topic == "" {
		topic = "general"
	}

	tips, err := h.svc.PregnancyTips(r.Context(), topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "topic": topic, "tips": tips})
}

func (h *Handler) Affirmation(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Affirmation(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "affirmation": text})
}

func (h *Handler) MentalChat(w http.ResponseWriter, r *http.Request) {
	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.svc.MentalChat(r.Context(), message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) DiseaseChat(w http.ResponseWriter, r *http.Request) {
	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, responseType, err := h.svc.DiseaseChat(r.Context(), message, r.FormValue("context"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"reply":         reply,
		"response_type": responseType,
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Health)
	r.Get("/test-gemini", h.TestGemini)
	r.Post("/analyse", h.AnalyseFood)
	r.Post("/pregnancy/chat", h.PregnancyChat)
	r.Post("/pregnancy/tips", h.PregnancyTips)
	r.Post("/pregnancy/affirmation", h.Affirmation)
	r.Post("/chat/text", h.MentalChat)
	r.Post("/disease/chat", h.DiseaseChat)
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
		logx.Error().Err(err).Msg("wellness request failed")
	}
	writeError(w, status, err.Error())
}
