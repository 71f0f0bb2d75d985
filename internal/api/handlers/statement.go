package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/txnscan/internal/api/middleware"
	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/statement"
)

// StatementHandler handles bank statement parsing.
type StatementHandler struct {
	processor *statement.Processor
	log       zerolog.Logger
}

// NewStatementHandler creates a new statement handler.
func NewStatementHandler(processor *statement.Processor, log zerolog.Logger) *StatementHandler {
	return &StatementHandler{processor: processor, log: log}
}

// Process handles POST /api/statement with a "file" part. PDFs and text files
// are read directly; anything else is OCRed as an image.
func (h *StatementHandler) Process(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r)
	if err != nil {
		h.log.Warn().Err(err).Msg("Invalid statement request")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if up == nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}

	out, err := h.processor.ProcessBytes(r.Context(), up.Filename, up.Data)
	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, out)
	case errors.Is(err, extractor.ErrOCRUnavailable):
		h.log.Warn().Err(err).Str("file", up.Filename).Msg("Statement needs OCR but tesseract is missing")
		middleware.WriteError(w, http.StatusServiceUnavailable, "OCR is not available on this server")
	case errors.Is(err, statement.ErrInvalidModelJSON), errors.Is(err, statement.ErrEmptyResponse):
		h.log.Error().Err(err).Str("file", up.Filename).Msg("Model reply unusable")
		middleware.WriteError(w, http.StatusBadGateway, "Model returned an unusable response")
	default:
		h.log.Error().Err(err).Str("file", up.Filename).Msg("Failed to process statement")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process statement")
	}
}
