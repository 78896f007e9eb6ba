package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/sample"
)

func (s *server) listProtocols(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	protocols := assay.Protocols()
	s.logger.Debug("Listing protocols", "count", len(protocols))
	response.RenderJSON(w, response.NewCollectionResponse(protocols, nil))
}

func (s *server) getProtocol(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	protocol, ok := assay.LookupProtocol(t)
	if !ok {
		response.RenderError(w, fmt.Errorf("no protocol for %s", t), http.StatusNotFound)
		return
	}

	response.RenderJSON(w, protocol)
}

func (s *server) getTemplate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	var buf bytes.Buffer
	if err := sample.CSVTemplate(&buf, t); err != nil {
		s.renderError(w, "Failed to write CSV template", err)
		return
	}

	response.RenderCSV(w, fmt.Sprintf("%s_template.csv", t), buf.Bytes())
}

func (s *server) getParams(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	p, err := s.engine.Params(r.Context(), t)
	if err != nil {
		s.renderError(w, "Failed to get calibration parameters", err)
		return
	}

	response.RenderJSON(w, p)
}

func (s *server) putParams(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	var p assay.Params
	if err := decodeJSON(w, r, &p); err != nil {
		response.RenderError(w, fmt.Errorf("failed to decode calibration parameters: %w", err), http.StatusBadRequest)
		return
	}

	if err := s.engine.ApplyParams(r.Context(), t, p); err != nil {
		s.renderError(w, "Failed to apply calibration parameters", err)
		return
	}

	s.logger.Info("Calibration parameters applied", "analysis_type", t)
	response.RenderJSON(w, response.NewPostResponse(true, "calibration parameters applied", p))
}
