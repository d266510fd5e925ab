package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := resumepdf.DecodeRequest(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.generate(w, r, req)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, req resumepdf.Request) {
	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, warn := range res.Warnings {
		s.logger.Warn(warn, "request_id", RequestID(r.Context()))
	}

	theme := req.ThemeName
	if theme == "" {
		theme = "default"
	}
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "resume-"+theme+".pdf"))
	h.Set("Cache-Control", "no-store")
	h.Set("X-Resume-Pages", strconv.Itoa(res.Pages))
	h.Set("X-Resume-Warnings", strconv.Itoa(len(res.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

func (s *Server) handleAssets(kind assets.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := s.gen.Assets().List(kind)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, names)
	}
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Registry().List())
}
