package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/assets"
)

type UploadsHandler struct {
	Assets *assets.Store
}

// ServeHTTP serves stored article images.
//
//	@Summary		Serve an uploaded image
//	@Description	Serves a stored article image by its generated name.
//	@Tags			Articles
//	@Produce		octet-stream
//	@Param			name	path	string	true	"Asset name"
//	@Success		200		"Image bytes"
//	@Failure		404		{object}	ErrorResponse	"Unknown asset"
//	@Router			/uploads/{name} [get].
func (h *UploadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path, err := h.Assets.Path(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, path)
}
