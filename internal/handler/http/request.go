package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

const (
	maxFormMemory = 10 << 20 // 10MB
	maxPhotoBytes = 10 << 20
)

// requireEmployeeID returns the employee bound to the access token, writing an
// error response when there is none.
func requireEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return "", false
	}
	if identity.EmployeeID == "" {
		response.HandleError(w, auth.ErrEmployeeIDRequired)
		return "", false
	}
	return identity.EmployeeID, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// parsePhotoForm reads a multipart form with an optional JSON "data" field
// decoded into dst and a required "photo" file.
func parsePhotoForm(w http.ResponseWriter, r *http.Request, dst interface{}) (photo []byte, filename string, ok bool) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, "", false
	}

	if dst != nil {
		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return nil, "", false
		}

		if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return nil, "", false
		}
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Photo is required", nil)
			return nil, "", false
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, "", false
	}
	defer file.Close()

	// One extra byte lets validation see an oversized upload.
	photo, err = io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, "", false
	}

	return photo, fileHeader.Filename, true
}
