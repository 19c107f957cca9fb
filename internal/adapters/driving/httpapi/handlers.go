package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// maxSearchBodyBytes bounds the request body; queries are short text.
const maxSearchBodyBytes = 1 << 16

var validate = validator.New()

// searchRequest is the POST /programs/search body. A zero or omitted
// top_k falls through to the service default.
type searchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=2000"`
	TopK  int    `json:"top_k" validate:"gte=0,lte=100"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodyBytes)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query is required and top_k must be between 0 and 100")
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrBackendUnavailable):
			writeError(w, http.StatusServiceUnavailable, "embedding backend unavailable")
		default:
			s.log.Error().Err(err).Msg("search failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	// The success body is the ordered result list itself; only errors
	// get an envelope. nil must still serialise as [].
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode errors past this point cannot change the status line.
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
