package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type DashboardHandler struct {
	ArticleService *service.ArticleService
}

// ServeHTTP lists the caller's working set of articles.
//
//	@Summary		Dashboard articles
//	@Description	Returns the caller's articles, drafts included, newest first. Admins see
//	@Description	every article on the site.
//	@Tags			Articles
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		ArticleResponse
//	@Failure		401	{object}	ErrorResponse	"Missing or invalid session"
//	@Router			/v1/dashboard/articles [get].
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.ArticleService.ListDashboard(ctx, IdentityFrom(ctx))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toArticleResponses(articles))
}
