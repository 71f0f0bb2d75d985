package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/txnscan/internal/api/middleware"
	"github.com/dvloznov/txnscan/internal/pipeline"
)

// AnalyzeHandler handles transaction log analysis.
type AnalyzeHandler struct {
	analyzer *pipeline.Analyzer
	log      zerolog.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer *pipeline.Analyzer, log zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, log: log}
}

type analyzeResponse struct {
	*pipeline.Result
	ChartPNG string `json:"chart_png,omitempty"`
}

// Analyze handles POST /api/analyze.
// The form carries either a "file" part or a "text" field; the file wins.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r)
	if err != nil {
		h.log.Warn().Err(err).Msg("Invalid analyze request")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	in := pipeline.Input{Text: r.FormValue("text")}
	if up != nil {
		in.Filename = up.Filename
		in.Data = up.Data
	}

	res, err := h.analyzer.Analyze(r.Context(), in)
	if err != nil {
		h.log.Error().Err(err).Str("file", in.Filename).Msg("Failed to analyze input")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to analyze input")
		return
	}

	resp := analyzeResponse{Result: res}
	if len(res.Chart) > 0 {
		resp.ChartPNG = base64.StdEncoding.EncodeToString(res.Chart)
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
