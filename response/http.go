package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	JSONContentType = "application/json"
	CSVContentType  = "text/csv; charset=utf-8"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RenderFatal(w http.ResponseWriter, err error) {
	RenderError(w, err, http.StatusInternalServerError)
}

func RenderError(w http.ResponseWriter, err error, statusCode int) {
	jsonError, marshalErr := json.Marshal(ErrorResponse{Error: err.Error()})
	if marshalErr != nil {
		jsonError = []byte(`{"error": "internal error"}`)
	}

	w.Header().Set("Content-Type", JSONContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write(jsonError)
}

func RenderSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func RenderJSON(w http.ResponseWriter, data any) {
	RenderJSONStatus(w, http.StatusOK, data)
}

func RenderJSONStatus(w http.ResponseWriter, statusCode int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		RenderFatal(w, fmt.Errorf("failed to marshal data: %w", err))
		return
	}

	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(statusCode)
	_, _ = w.Write(jsonData)
}

// RenderCSV sends data as a file download named filename.
func RenderCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", CSVContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
