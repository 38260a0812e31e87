package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"notespy/internal/logging"
	"notespy/internal/middleware/ratelimit"
	"notespy/internal/middleware/security"
	"notespy/internal/validate"
	gwerrors "notespy/pkg/errors"
)

// Extra room beyond the file size limit for multipart framing.
const multipartOverhead = 1 << 20

// Match proxies an audio upload to the matching backend. Each request
// walks the same sequence: origin policy, rate limit, file validation,
// a single bounded upstream call, then classification of the outcome.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	logger := logging.ForRequest(h.logger, security.RequestID(r.Context()))

	if !h.checkOrigin(w, r, logger) {
		return
	}
	if !h.checkRateLimit(w, r, ratelimit.ClassMatch, logger) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validate.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logger.Info("upload rejected", "reason", "body over size cap")
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("File too large. Maximum size is %dMB", validate.MaxFileSize/(1024*1024)))
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	info := &validate.FileInfo{
		Name:     header.Filename,
		Size:     header.Size,
		MIMEType: header.Header.Get("Content-Type"),
	}
	if err := validate.AudioFile(info); err != nil {
		logger.Info("upload rejected", "reason", err.Error(), "size", header.Size)
		writeError(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	filename := validate.SanitizeFilename(header.Filename)
	logger.Info("forwarding upload", "filename", filename, "size", header.Size)

	result, err := h.match.Match(r.Context(), filename, file)
	if err != nil {
		h.writeMatchError(w, err, logger)
		return
	}

	logger.Info("match response relayed", "status", result.StatusCode)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	w.Write(result.Body)
}

// writeMatchError maps a classified upstream failure to its terminal
// response. Internal detail never crosses the boundary; the safe-message
// mapping is the only channel for failure cause.
func (h *Handler) writeMatchError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var typed *gwerrors.Error
	if gwerrors.As(err, &typed) {
		switch typed.Type {
		case gwerrors.ErrorTypeTimeout:
			logger.Error("match backend timed out")
			writeError(w, http.StatusGatewayTimeout, typed.Message)
			return
		case gwerrors.ErrorTypeUpstream:
			logger.Error("match backend protocol error", "error", err)
			body := map[string]string{"error": typed.Message}
			if details, ok := typed.Details["details"].(string); ok && details != "" {
				body["details"] = details
			}
			writeJSON(w, http.StatusBadGateway, body)
			return
		}
	}

	logger.Error("match forward failed", "error", err)
	writeError(w, http.StatusInternalServerError, logging.SafeErrorMessage(unwrapCause(err)))
}

// errorMessage extracts the client-facing message from a typed error.
func errorMessage(err error) string {
	var typed *gwerrors.Error
	if gwerrors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

// unwrapCause prefers the underlying cause so the safe-message mapping
// sees the transport-level text.
func unwrapCause(err error) error {
	var typed *gwerrors.Error
	if gwerrors.As(err, &typed) && typed.Cause != nil {
		return typed.Cause
	}
	return err
}
