package http

import (
	"net/http"
	"os"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/assets"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/httpx"
)

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Uploads  string `json:"uploads"`
}

// ReadyHealthResponse is HealthResponse plus per-dependency checks.
type ReadyHealthResponse struct {
	HealthResponse
	Checks HealthChecks `json:"checks"`
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database connection and the upload directory.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ReadyHealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ReadyHealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	files *assets.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := HealthChecks{
			Database: "ok",
			Uploads:  "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if info, err := os.Stat(files.Dir()); err != nil || !info.IsDir() {
			checks.Uploads = "error: upload directory unavailable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, ReadyHealthResponse{
			HealthResponse: HealthResponse{
				Status:  overallStatus,
				Uptime:  time.Since(startTime).String(),
				Version: version,
			},
			Checks: checks,
		})
	}
}
