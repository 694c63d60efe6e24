package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/adapters/observability"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
)

// InsightDefaults are applied when the query string omits a parameter.
type InsightDefaults struct {
	Limit int
	TopK  int
	MinDF int
}

type Handlers struct {
	Q        *app.QueryService
	C        *app.CollectService
	Insights InsightDefaults
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Post("/v1/reviews", h.submitReview)
	s.mux.Get("/v1/insights", h.insights)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, name string, def, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || (max > 0 && v > max) {
		return 0, false
	}
	return v, true
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 50, 200)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
		return
	}

	q := domain.ReviewsQuery{Limit: limit, Source: r.URL.Query().Get("source")}
	out, err := h.Q.ListReviews(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to list reviews")
		return
	}
	if out == nil {
		out = []domain.Review{}
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}

type submitRequest struct {
	Source     string   `json:"source"`
	ProductURL string   `json:"product_url"`
	Body       string   `json:"body"`
	ReviewDate string   `json:"review_date"`
	Rating     *float64 `json:"rating"`
	HashID     string   `json:"hash_id"`
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		writeProblem(w, http.StatusBadRequest, "Invalid rating", "rating must be between 0 and 5")
		return
	}
	item := domain.RawReviewItem{Rating: req.Rating, Body: req.Body, ReviewDate: req.ReviewDate}
	if !item.Accepted() {
		writeProblem(w, http.StatusUnprocessableEntity, "Rejected", "review needs a body or a rating")
		return
	}

	out, err := h.C.Submit(r.Context(), app.SubmitInput{
		Source:     req.Source,
		ProductURL: req.ProductURL,
		Body:       req.Body,
		ReviewDate: req.ReviewDate,
		Rating:     req.Rating,
		HashID:     req.HashID,
	})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to store review")
		return
	}

	source := req.Source
	if source == "" {
		source = "partner"
	}
	observability.ObserveCollect(source, out.String(), 1)

	hashID := req.HashID
	if hashID == "" {
		hashID = domain.Fingerprint(source, req.ProductURL, req.Body, req.ReviewDate)
	}

	status := http.StatusCreated
	if out == domain.Duplicate {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": out.String(), "hash_id": hashID})
}

func (h *Handlers) insights(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", h.Insights.Limit, 10000)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 10000")
		return
	}
	topK, ok := queryInt(r, "topk", h.Insights.TopK, 100)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid topk", "topk must be an integer between 1 and 100")
		return
	}
	minDF, ok := queryInt(r, "min_df", h.Insights.MinDF, 0)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid min_df", "min_df must be a positive integer")
		return
	}

	out, err := h.Q.Insights(r.Context(), limit, r.URL.Query().Get("source"), topK, minDF)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to compute insights")
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write insights body")
	}
}
