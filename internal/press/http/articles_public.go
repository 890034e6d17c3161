package http

import (
	"net/http"
	"strconv"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type PublicArticlesHandler struct {
	ArticleService *service.ArticleService
}

// HandleList returns the public feed.
//
//	@Summary		List published articles
//	@Description	Returns every published article, newest first. No authentication required.
//	@Tags			Articles
//	@Produce		json
//	@Success		200	{array}		ArticleResponse
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/articles [get].
func (h *PublicArticlesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.ArticleService.ListPublished(ctx)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toArticleResponses(articles))
}

// HandleGet returns a single article.
//
//	@Summary		Get an article
//	@Description	Returns one article. Drafts are visible only to their author and admins;
//	@Description	everyone else gets a 404, never a 403.
//	@Tags			Articles
//	@Produce		json
//	@Param			id	path		int	true	"Article ID"
//	@Success		200	{object}	ArticleResponse
//	@Failure		404	{object}	ErrorResponse	"Unknown or hidden article"
//	@Router			/v1/articles/{id} [get].
func (h *PublicArticlesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	article, err := h.ArticleService.Get(ctx, IdentityFrom(ctx), id)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(article))
}

// pathID parses the {id} path segment, writing a 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
