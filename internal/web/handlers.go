package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/conciliacao/internal/core"
	"github.com/JonMunkholm/conciliacao/internal/logging"
	"github.com/JonMunkholm/conciliacao/internal/metrics"
)

// TableResponse is the body of GET /api/tables/{concept}.
type TableResponse struct {
	Info    core.TableInfo    `json:"info"`
	Columns []core.ColumnSpec `json:"columns"`
}

// CountResponse is the body of GET /api/tables/{concept}/count.
type CountResponse struct {
	Concept core.Concept `json:"concept"`
	Table   string       `json:"table"`
	Rows    int64        `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"schema": s.service.Schema(),
		"tables": s.service.ListTables(),
	})
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	concept, err := core.ParseConcept(chi.URLParam(r, "concept"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	def, err := s.service.GetTable(concept)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, TableResponse{Info: def.Info, Columns: def.ColumnSpecs})
}

func (s *Server) handleCountRows(w http.ResponseWriter, r *http.Request) {
	concept, err := core.ParseConcept(chi.URLParam(r, "concept"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	n, err := s.service.CountRows(r.Context(), concept)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{
		Concept: concept,
		Table:   core.MustTableName(concept),
		Rows:    n,
	})
}

// handlePublicEnv serves exactly the public bootstrap entries.
func (s *Server) handlePublicEnv(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.cfg.Public.Entries())
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"conciliacao": s.cfg.Public.ConciliacaoEnabled(),
	})
}

func (s *Server) handleSchemaCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.CheckSchema(r.Context())
	if err != nil {
		metrics.RecordSchemaCheck(false, err)
		respondError(w, r, err, 0)
		return
	}
	metrics.RecordSchemaCheck(report.OK, nil)

	if !report.OK {
		logger := logging.WithFields(r.Context(), "report_id", report.ID, "schema", report.Schema)
		for _, st := range report.Tables {
			if !st.OK() {
				logger.Warn("schema drift detected",
					"table", st.Table,
					"exists", st.Exists,
					"missing_columns", st.MissingColumns,
				)
			}
		}
	}
	writeJSON(w, http.StatusOK, report)
}
