package handler

import (
	"log/slog"
	"net/http"

	"notespy/internal/logging"
	"notespy/internal/middleware/ratelimit"
	"notespy/internal/middleware/security"
	"notespy/internal/upstream"
	"notespy/internal/validate"
	gwerrors "notespy/pkg/errors"
)

type searchResponse struct {
	Found bool `json:"found"`
	*upstream.Song
}

// Search validates the query parameters, forwards the sanitized term to
// the catalog API, and maps the best result to the track metadata shape.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	logger := logging.ForRequest(h.logger, security.RequestID(r.Context()))

	if !h.checkOrigin(w, r, logger) {
		return
	}
	if !h.checkRateLimit(w, r, ratelimit.ClassSearch, logger) {
		return
	}

	query := r.URL.Query()

	title, err := validate.SearchParam(query.Get("title"), "title")
	if err != nil {
		writeError(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	term := title
	if rawArtist := query.Get("artist"); rawArtist != "" {
		artist, err := validate.SearchParam(rawArtist, "artist")
		if err != nil {
			writeError(w, http.StatusBadRequest, errorMessage(err))
			return
		}
		term = title + " " + artist
	}

	logger.Info("catalog search", "term", term)

	song, err := h.catalog.Search(r.Context(), term)
	if err != nil {
		h.writeSearchError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Found: true, Song: song})
}

func (h *Handler) writeSearchError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var typed *gwerrors.Error
	if gwerrors.As(err, &typed) {
		switch typed.Type {
		case gwerrors.ErrorTypeNotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{
				"found": false,
				"error": typed.Message,
			})
			return
		case gwerrors.ErrorTypeTimeout:
			logger.Error("catalog timed out")
			writeError(w, http.StatusGatewayTimeout, typed.Message)
			return
		case gwerrors.ErrorTypeUpstream:
			logger.Error("catalog protocol error", "error", err)
			writeError(w, http.StatusBadGateway, typed.Message)
			return
		}
	}

	logger.Error("catalog search failed", "error", err)
	writeError(w, http.StatusInternalServerError, logging.SafeErrorMessage(unwrapCause(err)))
}
