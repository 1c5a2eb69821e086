// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/draftedge/farmline/internal/adapters/repository"
	"github.com/draftedge/farmline/internal/domain/model"
)

// RankingsHandler handles ranking list requests.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// rankingsResponse wraps the rows with snapshot provenance so consumers
// can tell which run they are looking at.
type rankingsResponse struct {
	Meta     repository.Meta          `json:"meta"`
	Rankings []model.CompositeRanking `json:"rankings"`
}

// HandleGetRankings handles GET /rankings requests with optional
// position, organization, level, tier, and limit query parameters.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rows, err := h.deps.List(r.Context(), f)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	meta, _ := h.deps.Meta(r.Context())
	writeJSON(w, http.StatusOK, rankingsResponse{Meta: meta, Rankings: rows})
}

func (h *RankingsHandler) parseFilter(r *http.Request) (repository.Filter, error) {
	q := r.URL.Query()
	f := repository.Filter{
		Position:     q.Get("position"),
		Organization: q.Get("organization"),
	}

	if level := q.Get("level"); level != "" {
		l := model.Level(level)
		if !l.Valid() {
			return f, ErrBadRequest
		}
		f.Level = l
	}
	if tier := q.Get("tier"); tier != "" {
		n, err := strconv.Atoi(tier)
		if err != nil || n < 1 {
			return f, ErrBadRequest
		}
		f.Tier = n
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > h.maxLimit {
			return f, ErrBadRequest
		}
		f.Limit = n
	}
	return f, nil
}

// ProspectHandler handles single-prospect ranking requests.
type ProspectHandler struct {
	deps Dependencies
}

// NewProspectHandler creates a new prospect handler.
func NewProspectHandler(deps Dependencies) *ProspectHandler {
	return &ProspectHandler{deps: deps}
}

// HandleGetProspect handles GET /rankings/{prospect_id} requests.
func (h *ProspectHandler) HandleGetProspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rankings/
	path := strings.TrimPrefix(r.URL.Path, "/rankings/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	row, err := h.deps.Get(r.Context(), path)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
