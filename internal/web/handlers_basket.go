package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/pisearch/internal/logging"
	"github.com/JonMunkholm/pisearch/internal/web/templates"
)

// BasketAddResponse reports the outcome of adding a query to the basket.
type BasketAddResponse struct {
	Matched int `json:"matched"`
	Added   int `json:"added"`
	Size    int `json:"size"`
}

// handleAddToBasket evaluates the posted query and adds its results.
func (s *Server) handleAddToBasket(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	matched, added, size, err := s.service.AddToBasket(sessionID(r), req.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("basket updated",
		"matched", matched,
		"added", added,
		"size", size,
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.BasketSummary(templates.BasketView{Matched: matched, Added: added, Size: size}).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, BasketAddResponse{Matched: matched, Added: added, Size: size})
}

// handleBasket returns the basket contents.
func (s *Server) handleBasket(w http.ResponseWriter, r *http.Request) {
	t, err := s.service.Basket(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ResultTable(tableView("Basket", t)).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(t))
}

// handleResetBasket empties the basket.
func (s *Server) handleResetBasket(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetBasket(sessionID(r)); err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.BasketSummary(templates.BasketView{Cleared: true}).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, BasketAddResponse{})
}

// handleExportBasket downloads the basket as an xlsx workbook.
func (s *Server) handleExportBasket(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.ExportBasket(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	if _, err := w.Write(art.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}
