package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/internal/store"
)

func (s *Server) profileRoutes(r chi.Router) {
	r.Get("/", s.handleListProfiles)
	r.Post("/", s.handleCreateProfile)
	r.Get("/{name}", s.handleGetProfile)
	r.Put("/{name}", s.handlePutProfile)
	r.Delete("/{name}", s.handleDeleteProfile)
	r.Post("/{name}/pdf", s.handleProfilePDF)

	// query-string forms kept for older clients
	r.Get("/list", s.handleListProfiles)
	r.Post("/save", s.handleCreateProfile)
	r.Get("/get", s.byQuery(s.handleGetProfile))
	r.Get("/load", s.byQuery(s.handleGetProfile))
	r.Delete("/delete", s.byQuery(s.handleDeleteProfile))
}

type profileBody struct {
	Name    string         `json:"name"`
	Profile map[string]any `json:"profile"`
}

// byQuery serves a {name} route from the ?name= query parameter.
func (s *Server) byQuery(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		rctx.URLParams.Add("name", r.URL.Query().Get("name"))
		h(w, r)
	}
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProfileBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Name == "" {
		body.Name = store.NewName()
	}
	if err := s.store.Save(r.Context(), body.Name, body.Profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "name": body.Name})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProfileBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, body.Profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": name})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileBody{Name: name, Profile: p})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": name})
}

// handleProfilePDF generates from a stored profile. The body, when
// present, carries the other request fields (theme_name, layout_name...).
func (s *Server) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := map[string]any{}
	if r.ContentLength != 0 {
		if payload, err = decodeBody(w, r); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	payload["profile"] = p
	req, err := resumepdf.DecodeRequest(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.generate(w, r, req)
}

func decodeProfileBody(w http.ResponseWriter, r *http.Request) (profileBody, error) {
	payload, err := decodeBody(w, r)
	if err != nil {
		return profileBody{}, err
	}
	var (
		body profileBody
		verr resumepdf.ValidationError
	)
	switch v := payload["name"].(type) {
	case nil:
	case string:
		body.Name = v
	default:
		verr.Add("name", "expected a string")
	}
	switch v := payload["profile"].(type) {
	case map[string]any:
		body.Profile = v
	case nil:
		verr.Add("profile", "field required")
	default:
		verr.Add("profile", "expected an object")
	}
	if err := verr.Err(); err != nil {
		return profileBody{}, err
	}
	return body, nil
}
