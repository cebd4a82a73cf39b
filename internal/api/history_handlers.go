package api

import (
	"net/http"

	"github.com/vytor/nclexnav/internal/models"
)

const defaultHistoryLimit = 20

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultHistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := models.HistoryFilter{
		ProfileID: profileID(r),
		Filter:    q.Get("filter"),
		SortBy:    q.Get("sort"),
		Limit:     limit,
		Offset:    offset,
	}

	records, total, err := s.HistoryService.ListHistory(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, listResponse[models.TestRecord]{
		Items:  records,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.HistoryService.GetStats(r.Context(), profileID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	record, err := s.HistoryService.GetRecord(r.Context(), profileID(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}
