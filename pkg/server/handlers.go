package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vango-dev/vrouter/pkg/router"
)

// Warning is a route table diagnostic as served by /routes.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
}

// TableResponse is the body of GET /routes.
type TableResponse struct {
	Records  []router.RecordInfo `json:"records"`
	Names    []string            `json:"names"`
	Warnings []Warning           `json:"warnings"`
}

// MatchResponse is the body of GET /match.
type MatchResponse struct {
	Route *router.Route `json:"route"`
	Href  string        `json:"href"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// DescribeTable builds the /routes response for t.
func DescribeTable(t *router.Table) TableResponse {
	resp := TableResponse{
		Records:  t.Describe(),
		Names:    t.Names(),
		Warnings: []Warning{},
	}
	for _, e := range t.Warnings() {
		resp.Warnings = append(resp.Warnings, Warning{
			Code:    e.Code,
			Message: e.Message,
			Path:    e.RoutePath,
			Name:    e.RouteName,
		})
	}
	return resp
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DescribeTable(s.inspect.Table()))
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to := q.Get("to")
	if to == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing \"to\" parameter"})
		return
	}
	appendPath, _ := strconv.ParseBool(q.Get("append"))

	current := router.Start
	if from := q.Get("from"); from != "" {
		current = s.inspect.Match(router.Path(from), router.Start)
	}

	res := s.inspect.Resolve(router.Path(to), current, appendPath)
	writeJSON(w, http.StatusOK, MatchResponse{Route: res.Route, Href: res.Href})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
