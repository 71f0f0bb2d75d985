package handlers

import (
	"net/http"
	"time"

	"github.com/dvloznov/txnscan/internal/api/middleware"
)

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Routes registers every endpoint on a new mux. A nil statement handler
// leaves /api/statement unregistered.
func Routes(analyze *AnalyzeHandler, stmt *StatementHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("POST /api/analyze", analyze.Analyze)
	if stmt != nil {
		mux.HandleFunc("POST /api/statement", stmt.Process)
	}
	return mux
}
