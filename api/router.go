// Package api exposes the analysis engine over JSON HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/phytolab/analysis"
	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/middleware"
	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/secret"
	"github.com/timgluz/phytolab/stats"
)

// maxBodySize caps request bodies, CSV uploads included.
const maxBodySize = 10 << 20

type server struct {
	engine *analysis.Engine
	logger *slog.Logger
}

// NewRouter registers every route on a fresh router. All routes require a
// bearer token known to secretStore.
func NewRouter(engine *analysis.Engine, secretStore secret.Store, logger *slog.Logger) *httprouter.Router {
	router := httprouter.New()
	Register(router, engine, secretStore, logger)
	return router
}

// Register adds the routes to an existing router, e.g. the one provided by
// the Spin SDK.
func Register(router *httprouter.Router, engine *analysis.Engine, secretStore secret.Store, logger *slog.Logger) {
	s := &server{engine: engine, logger: logger}
	auth := func(h httprouter.Handle) httprouter.Handle {
		return middleware.BearerAuth(h, secretStore)
	}

	router.GET("/assays", auth(s.listProtocols))
	router.GET("/assays/:type", auth(s.getProtocol))
	router.GET("/assays/:type/template", auth(s.getTemplate))

	router.GET("/assays/:type/params", auth(s.getParams))
	router.PUT("/assays/:type/params", auth(s.putParams))

	router.GET("/assays/:type/samples", auth(s.listSamples))
	router.POST("/assays/:type/samples", auth(s.addSamples))
	router.DELETE("/assays/:type/samples", auth(s.removeSamples))
	router.GET("/assays/:type/samples/:id", auth(s.getSample))
	router.PUT("/assays/:type/samples/:id", auth(s.updateSample))
	router.DELETE("/assays/:type/samples/:id", auth(s.removeSample))

	router.GET("/assays/:type/statistics", auth(s.getStatistics))
	router.GET("/assays/:type/chart", auth(s.getChart))

	router.POST("/calculate", auth(s.calculate))
	router.POST("/aggregate", auth(s.aggregate))

	router.NotFound = response.NewNotFoundHandler(logger)
	router.MethodNotAllowed = response.NewMethodNotAllowedHandler(logger)
}

// statusFor maps engine errors to response codes.
func statusFor(err error) int {
	switch {
	case assay.IsInvalidArgument(err),
		errors.Is(err, sample.ErrInvalidPeriod),
		errors.Is(err, sample.ErrNoRows),
		errors.Is(err, analysis.ErrAnalysisTypeMismatch),
		errors.Is(err, stats.ErrUnknownGroupingKey):
		return http.StatusBadRequest
	case errors.Is(err, sample.ErrSampleNotFound):
		return http.StatusNotFound
	case errors.Is(err, sample.ErrSampleExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) renderError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(msg, "error", err)
	} else {
		s.logger.Warn(msg, "status", status, "error", err)
	}
	response.RenderError(w, err, status)
}

func assayFromParams(params httprouter.Params) (assay.Type, error) {
	return assay.ParseType(params.ByName("type"))
}
