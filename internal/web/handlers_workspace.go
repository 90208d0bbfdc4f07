package web

import (
	"net/http"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/JonMunkholm/pisearch/internal/logging"
	"github.com/JonMunkholm/pisearch/internal/web/templates"
)

// maxDisplayRows caps the rows rendered into an HTML table. JSON answers
// always carry the full result.
const maxDisplayRows = 500

// WorkspaceResponse describes the loaded workspace: detected columns,
// classified roles and the selector options.
type WorkspaceResponse struct {
	Mode            core.Mode            `json:"mode"`
	Rows            int                  `json:"rows"`
	Columns         []string             `json:"columns"`
	Roles           core.Roles           `json:"roles"`
	CategoryOptions []string             `json:"category_options"`
	OriginOptions   []string             `json:"origin_options"`
	Sources         []core.SourceSummary `json:"sources"`
	Failures        []core.SourceFailure `json:"failures"`
}

// TableResponse is a result set or basket rendered as strings.
// Absent cells are empty strings.
type TableResponse struct {
	Count   int        `json:"count"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func workspaceResponse(ws *core.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		Mode:            ws.Mode,
		Rows:            ws.Table.Len(),
		Columns:         ws.Table.Columns,
		Roles:           ws.Roles,
		CategoryOptions: ws.CategoryOptions(),
		OriginOptions:   ws.OriginOptions(),
		Sources:         ws.Sources,
		Failures:        ws.Failures,
	}
}

func tableResponse(t core.Table) TableResponse {
	columns := t.Columns
	if columns == nil {
		columns = []string{}
	}
	return TableResponse{Count: t.Len(), Columns: columns, Rows: t.Records()}
}

func tableView(title string, t core.Table) templates.ResultView {
	shown := t
	if t.Len() > maxDisplayRows {
		shown = core.Table{Columns: t.Columns, Rows: t.Rows[:maxDisplayRows]}
	}
	return templates.ResultView{
		Title:   title,
		Count:   t.Len(),
		Columns: t.Columns,
		Rows:    shown.Records(),
	}
}

func filterView(ws *core.Workspace) templates.FilterView {
	return templates.FilterView{
		Origins:    ws.OriginOptions(),
		Categories: ws.CategoryOptions(),
	}
}

// handleWorkspace returns the session's workspace, or the filter selectors
// for HTMX.
func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.service.Workspace(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.Filters(filterView(ws), false).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, workspaceResponse(ws))
}

// handleOverrideRoles replaces the classified category and interest columns.
func (s *Server) handleOverrideRoles(w http.ResponseWriter, r *http.Request) {
	var req RolesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ws, err := s.service.OverrideRoles(sessionID(r), core.Roles{Category: req.Category, Interest: req.Interest})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("roles overridden",
		"category", ws.Roles.Category,
		"interest", ws.Roles.Interest,
	)
	writeJSON(w, http.StatusOK, workspaceResponse(ws))
}

// handleResults evaluates the query in the URL against the workspace.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	req := queryFromValues(r.URL.Query().Get)
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	rs, err := s.service.Query(sessionID(r), req.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("query evaluated", "matches", rs.Len())

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ResultTable(tableView("", rs)).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(rs))
}

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index("Database Search").Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// HealthResponse reports liveness and load.
type HealthResponse struct {
	Status   string             `json:"status"`
	Sessions int                `json:"sessions"`
	Ingest   core.LimiterStatus `json:"ingest"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: s.service.Sessions().Count(),
		Ingest:   s.service.Limiter().Status(),
	})
}
