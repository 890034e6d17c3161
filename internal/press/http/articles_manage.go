package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// DefaultMaxUploadBytes bounds article form parsing, image included.
const DefaultMaxUploadBytes = 16 << 20

type ArticlesHandler struct {
	ArticleService *service.ArticleService

	// MaxUploadBytes caps the multipart form size. Zero means
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

type articleForm struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
}

// HandleCreate creates an article owned by the caller.
//
//	@Summary		Create an article
//	@Description	Creates an article from a multipart form. Fields: title, content,
//	@Description	published ("true"/"false"), and an optional image file (png, jpg, jpeg, gif, webp).
//	@Description	The authenticated user always becomes the author.
//	@Tags			Articles
//	@Security		BearerAuth
//	@Accept			mpfd
//	@Produce		json
//	@Success		201	{object}	ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Malformed form"
//	@Failure		401	{object}	ErrorResponse	"Missing or invalid session"
//	@Failure		422	{object}	ErrorResponse	"Unsupported image type"
//	@Router			/v1/articles [post].
func (h *ArticlesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	input, cleanup, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	article, err := h.ArticleService.Create(ctx, IdentityFrom(ctx), input)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toArticleResponse(article))
}

// HandleUpdate replaces an article's content.
//
//	@Summary		Update an article
//	@Description	Updates an article the caller owns (admins may edit any article). Same form
//	@Description	fields as create, plus remove_image ("true") to drop the image without a
//	@Description	replacement. Editing never changes the author.
//	@Tags			Articles
//	@Security		BearerAuth
//	@Accept			mpfd
//	@Produce		json
//	@Param			id	path		int	true	"Article ID"
//	@Success		200	{object}	ArticleResponse
//	@Failure		401	{object}	ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	ErrorResponse	"Not the author"
//	@Failure		404	{object}	ErrorResponse	"Unknown article"
//	@Failure		422	{object}	ErrorResponse	"Unsupported image type"
//	@Router			/v1/articles/{id} [put].
func (h *ArticlesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	input, cleanup, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	article, err := h.ArticleService.Update(ctx, IdentityFrom(ctx), id, input)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(article))
}

// HandleDelete removes an article.
//
//	@Summary		Delete an article
//	@Description	Deletes an article the caller owns (admins may delete any article). The
//	@Description	attached image is removed as well.
//	@Tags			Articles
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	int	true	"Article ID"
//	@Success		204	"Article deleted"
//	@Failure		401	{object}	ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	ErrorResponse	"Not the author"
//	@Failure		404	{object}	ErrorResponse	"Unknown article"
//	@Router			/v1/articles/{id} [delete].
func (h *ArticlesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ArticleService.Delete(ctx, IdentityFrom(ctx), id); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseForm reads the multipart article form. The returned cleanup closes
// any opened upload and must be deferred by the caller.
func (h *ArticlesHandler) parseForm(w http.ResponseWriter, r *http.Request) (service.ArticleInput, func(), bool) {
	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return service.ArticleInput{}, nil, false
	}

	form := articleForm{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	if err := validate.Struct(form); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return service.ArticleInput{}, nil, false
	}

	input := service.ArticleInput{
		Title:       form.Title,
		Content:     form.Content,
		Published:   parseFormBool(r.FormValue("published")),
		RemoveImage: parseFormBool(r.FormValue("remove_image")),
	}

	cleanup := func() {}
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		input.Image = &service.ImageUpload{Filename: header.Filename, Data: file}
		cleanup = func() { _ = file.Close() }
	case errors.Is(err, http.ErrMissingFile):
		// No upload; fine.
	default:
		writeError(w, http.StatusBadRequest, "invalid image upload")
		return service.ArticleInput{}, nil, false
	}

	return input, cleanup, true
}

func parseFormBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
