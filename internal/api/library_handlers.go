package api

import (
	"net/http"

	"github.com/vytor/nclexnav/internal/models"
)

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	filter := models.ResourceFilter{
		Search:       r.URL.Query().Get("search"),
		Specialties:  listQuery(r, "specialty"),
		ContentTypes: listQuery(r, "type"),
		Difficulties: listQuery(r, "difficulty"),
		SortBy:       r.URL.Query().Get("sort"),
	}
	resources, err := s.LibraryService.ListResources(r.Context(), profileID(r), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, listResponse[models.Resource]{Items: resources, Total: len(resources)})
}

func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.LibraryService.GetResource(r.Context(), profileID(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleLibrary lists the profile's saved resources, optionally one folder.
func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	items, err := s.LibraryService.ListSaved(r.Context(), profileID(r), r.URL.Query().Get("folder"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, listResponse[models.SavedItem]{Items: items, Total: len(items)})
}

type saveResourceRequest struct {
	Folder string `json:"folder"`
}

func (s *Server) handleSaveResource(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req saveResourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	item, err := s.LibraryService.SaveResource(r.Context(), profileID(r), id, req.Folder)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleRemoveResource(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.LibraryService.RemoveResource(r.Context(), profileID(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
