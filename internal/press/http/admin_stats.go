package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type AdminStatsHandler struct {
	Store store.Store
}

// ServeHTTP returns site-wide counters.
//
//	@Summary		Site statistics
//	@Description	Returns user and article counts for the admin dashboard.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Failure		403	{object}	ErrorResponse	"Admin access required"
//	@Router			/v1/admin/stats [get].
func (h *AdminStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Store.Stats(ctx)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		TotalUsers:        stats.TotalUsers,
		ActiveUsers:       stats.ActiveUsers,
		AdminUsers:        stats.AdminUsers,
		TotalArticles:     stats.TotalArticles,
		PublishedArticles: stats.PublishedArticles,
		DraftArticles:     stats.DraftArticles,
	})
}
