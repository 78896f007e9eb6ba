package api

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/stats"
)

type CalculateRequest struct {
	AnalysisType          assay.Type        `json:"analysis_type"`
	AbsorbanceValues      sample.Absorbance `json:"absorbance_values"`
	CalibrationParameters assay.Params      `json:"calibration_parameters"`
}

type AggregateRequest struct {
	Results     []sample.Computed `json:"results"`
	GroupingKey string            `json:"grouping_key"`
}

// calculate runs one formula without touching the stores.
func (s *server) calculate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CalculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RenderError(w, fmt.Errorf("failed to decode calculation request: %w", err), http.StatusBadRequest)
		return
	}

	result, err := assay.Calculate(req.AnalysisType, req.AbsorbanceValues, req.CalibrationParameters)
	if err != nil {
		s.renderError(w, "Failed to calculate", err)
		return
	}

	response.RenderJSON(w, result)
}

// aggregate computes group statistics over results supplied by the caller.
func (s *server) aggregate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req AggregateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RenderError(w, fmt.Errorf("failed to decode aggregation request: %w", err), http.StatusBadRequest)
		return
	}

	key, err := stats.ParseGroupingKey(req.GroupingKey)
	if err != nil {
		s.renderError(w, "Invalid grouping key", err)
		return
	}

	groups := stats.Aggregate(req.Results, key)
	if groups == nil {
		groups = []stats.Group{}
	}
	response.RenderJSON(w, groups)
}
