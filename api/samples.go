package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/phytolab/analysis"
	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/stats"
)

type removeRequest struct {
	IDs []string `json:"ids"`
}

func (s *server) listSamples(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	results, err := s.engine.Results(r.Context(), t, analysis.ResultOptions{
		Period: r.URL.Query().Get("period"),
	})
	if err != nil {
		s.renderError(w, "Failed to compute results", err)
		return
	}

	s.logger.Debug("Results retrieved", "analysis_type", t, "count", len(results))
	response.RenderJSON(w, response.Paginate(results, response.NewPaginationFromRequest(r)))
}

func (s *server) getSample(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	computed, err := s.engine.Sample(r.Context(), t, params.ByName("id"))
	if err != nil {
		s.renderError(w, "Failed to get sample", err)
		return
	}

	response.RenderJSON(w, computed)
}

// addSamples accepts a single JSON sample, a JSON array of samples, or a
// text/csv upload.
func (s *server) addSamples(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer body.Close()

	var added []*sample.Sample
	if isCSV(r) {
		added, err = s.engine.ImportCSV(r.Context(), t, body)
	} else {
		var samples []*sample.Sample
		samples, err = decodeSamples(body)
		if err != nil {
			response.RenderError(w, fmt.Errorf("failed to decode samples: %w", err), http.StatusBadRequest)
			return
		}
		added, err = s.engine.AddSamples(r.Context(), t, samples)
	}
	if err != nil {
		s.renderError(w, "Failed to add samples", err)
		return
	}

	response.RenderJSONStatus(w, http.StatusCreated, response.NewPostResponse(true, fmt.Sprintf("%d samples added", len(added)), added))
}

func (s *server) updateSample(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	var patch sample.Sample
	if err := decodeJSON(w, r, &patch); err != nil {
		response.RenderError(w, fmt.Errorf("failed to decode sample: %w", err), http.StatusBadRequest)
		return
	}

	updated, err := s.engine.UpdateSample(r.Context(), t, params.ByName("id"), &patch)
	if err != nil {
		s.renderError(w, "Failed to update sample", err)
		return
	}

	response.RenderJSON(w, response.NewPostResponse(true, "sample updated", updated))
}

func (s *server) removeSample(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	s.remove(w, r, params, params.ByName("id"))
}

func (s *server) removeSamples(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req removeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RenderError(w, fmt.Errorf("failed to decode sample IDs: %w", err), http.StatusBadRequest)
		return
	}

	s.remove(w, r, params, req.IDs...)
}

func (s *server) remove(w http.ResponseWriter, r *http.Request, params httprouter.Params, ids ...string) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	if err := s.engine.RemoveSamples(r.Context(), t, ids...); err != nil {
		s.renderError(w, "Failed to remove samples", err)
		return
	}

	response.RenderJSON(w, response.NewPostResponse(true, "samples removed", nil))
}

// getStatistics returns the selection panel, or per-group statistics when
// a group query parameter is given.
func (s *server) getStatistics(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	query := r.URL.Query()
	ids := splitIDs(query.Get("ids"))

	if query.Has("group") {
		key, err := stats.ParseGroupingKey(query.Get("group"))
		if err != nil {
			s.renderError(w, "Invalid grouping key", err)
			return
		}

		groups, err := s.engine.Groups(r.Context(), t, key, ids)
		if err != nil {
			s.renderError(w, "Failed to aggregate results", err)
			return
		}
		response.RenderJSON(w, response.NewCollectionResponse(groups, nil))
		return
	}

	selection, err := s.engine.Statistics(r.Context(), t, ids)
	if err != nil {
		s.renderError(w, "Failed to compute statistics", err)
		return
	}
	response.RenderJSON(w, selection)
}

func (s *server) getChart(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	t, err := assayFromParams(params)
	if err != nil {
		s.renderError(w, "Invalid analysis type", err)
		return
	}

	grouped := true
	if raw := r.URL.Query().Get("grouped"); raw != "" {
		grouped, err = strconv.ParseBool(raw)
		if err != nil {
			response.RenderError(w, fmt.Errorf("invalid grouped flag %q: %w", raw, err), http.StatusBadRequest)
			return
		}
	}

	points, err := s.engine.Chart(r.Context(), t, grouped)
	if err != nil {
		s.renderError(w, "Failed to build chart", err)
		return
	}

	response.RenderJSON(w, response.NewCollectionResponse(points, nil))
}

func isCSV(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/csv"
}

func decodeSamples(r io.Reader) ([]*sample.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty request body")
	}

	if data[0] == '[' {
		var samples []*sample.Sample
		if err := json.Unmarshal(data, &samples); err != nil {
			return nil, err
		}
		return samples, nil
	}

	var single sample.Sample
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []*sample.Sample{&single}, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer body.Close()

	return json.NewDecoder(body).Decode(v)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
