package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bobmcallan/favalens/internal/clients/fava"
	"github.com/bobmcallan/favalens/internal/common"
	"github.com/bobmcallan/favalens/internal/interfaces"
	"github.com/bobmcallan/favalens/internal/models"
	"github.com/bobmcallan/favalens/internal/services/summary"
)

// handleIncomeStatement handles GET /income_statement.
// It fetches the raw income statement from Fava, derives a best-effort
// summary, and returns both. Fava's own non-200 status is propagated
// verbatim; any transport failure surfaces as 502.
func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	params := interfaces.IncomeStatementParams{
		Time:       q.Get("time"),
		Interval:   q.Get("interval"),
		Conversion: q.Get("conversion"),
		Filter:     q.Get("filter"),
	}

	returnRaw := true
	if v := q.Get("return_raw"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			returnRaw = b
		}
	}

	raw, err := s.fava.GetIncomeStatement(r.Context(), params)
	if err != nil {
		var statusErr *fava.StatusError
		if errors.As(err, &statusErr) {
			WriteError(w, statusErr.Code, statusErr.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	result := models.Result{
		Source:  s.fava.IncomeStatementURL(),
		Summary: summary.Summarize(raw),
	}
	if returnRaw {
		result.Raw = &raw
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
