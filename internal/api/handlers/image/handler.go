package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/api/respond"
	"github.com/aliskhannn/image-filter/internal/detector"
	"github.com/aliskhannn/image-filter/internal/model"
	"github.com/aliskhannn/image-filter/internal/processor"
	"github.com/aliskhannn/image-filter/internal/storage"
)

// uploadField is the multipart field carrying the uploaded file.
const uploadField = "uploadFile"

var (
	ErrMissingFile    = errors.New("required upload file")
	ErrEmptyFilename  = errors.New("filename must not empty.")
	ErrInvalidRequest = errors.New("task_id and id are required")
	ErrTooLarge       = errors.New("upload is too large")
)

// service defines the interface for image-related operations.
type service interface {
	Upload(ctx context.Context, r io.Reader) (model.UploadResult, error)
	Apply(ctx context.Context, op model.Operation, req model.Request) (model.FilterResult, error)
	Open(ctx context.Context, taskID, imageID string) (io.ReadCloser, error)
	RequestSweep(ctx context.Context) (uuid.UUID, error)
}

// Handler provides HTTP handlers for image-related endpoints.
// It depends on a service interface to perform the business logic.
type Handler struct {
	service        service
	maxUploadBytes int64
}

// NewHandler creates a new Handler with the given service. Upload bodies
// larger than maxUploadBytes are rejected.
func NewHandler(s service, maxUploadBytes int64) *Handler {
	return &Handler{service: s, maxUploadBytes: maxUploadBytes}
}

// Hello answers liveness probes.
func (h *Handler) Hello(c *ginext.Context) {
	c.String(http.StatusOK, "Hello, World!")
}

// Upload handles the HTTP request for uploading an image.
// The file is decoded and stored as the first image of a new task.
func (h *Handler) Upload(c *ginext.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		zlog.Logger.Warn().Int64("size", c.Request.ContentLength).Msg("upload too large")
		respond.Fail(c, http.StatusRequestEntityTooLarge, ErrTooLarge)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			zlog.Logger.Warn().Int64("limit", tooLarge.Limit).Msg("upload too large")
			respond.Fail(c, http.StatusRequestEntityTooLarge, ErrTooLarge)
			return
		}
	}

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("no upload file")
		respond.Fail(c, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respond.Fail(c, http.StatusBadRequest, ErrEmptyFilename)
		return
	}

	res, err := h.service.Upload(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, storage.ErrDecode) {
			zlog.Logger.Warn().Err(err).Str("filename", header.Filename).Msg("failed to decode upload")
			respond.Fail(c, http.StatusBadRequest, storage.ErrDecode)
			return
		}

		zlog.Logger.Err(err).Msg("failed to save the image")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to save the image"))
		return
	}

	zlog.Logger.Info().
		Str("task_id", res.Image.TaskID).
		Str("id", res.Image.ID).
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("image uploaded")

	respond.OK(c, res)
}

// Filter returns the handler applying op to the image named in the JSON
// body.
func (h *Handler) Filter(op model.Operation) func(c *ginext.Context) {
	return func(c *ginext.Context) {
		var req model.Request
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil || req.TaskID == "" || req.ID == "" {
			respond.Fail(c, http.StatusBadRequest, ErrInvalidRequest)
			return
		}

		res, err := h.service.Apply(c.Request.Context(), op, req)
		if err != nil {
			status, msg := classify(err)
			if status == http.StatusInternalServerError {
				zlog.Logger.Err(err).
					Str("op", string(op)).
					Str("task_id", req.TaskID).
					Str("id", req.ID).
					Msg("operation failed")
				msg = fmt.Errorf("failed to apply %s", op)
			}

			respond.Fail(c, status, msg)
			return
		}

		respond.OK(c, res)
	}
}

// classify maps an operation error to an HTTP status and the message
// shown to the client.
func classify(err error) (int, error) {
	switch {
	case errors.Is(err, storage.ErrImageNotFound):
		return http.StatusNotFound, storage.ErrImageNotFound
	case errors.Is(err, processor.ErrUnknownOperation):
		return http.StatusNotFound, processor.ErrUnknownOperation
	case errors.Is(err, processor.ErrInvalidThreshold):
		return http.StatusBadRequest, processor.ErrInvalidThreshold
	case errors.Is(err, detector.ErrUnavailable):
		return http.StatusNotImplemented, detector.ErrUnavailable
	default:
		return http.StatusInternalServerError, err
	}
}

// Get serves the bytes of a stored image.
func (h *Handler) Get(c *ginext.Context) {
	taskID, id := c.Param("task_id"), c.Param("id")

	reader, err := h.service.Open(c.Request.Context(), taskID, id)
	if err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			respond.Fail(c, http.StatusNotFound, storage.ErrImageNotFound)
			return
		}

		zlog.Logger.Err(err).Str("task_id", taskID).Str("id", id).Msg("failed to get image")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to get image"))
		return
	}
	defer reader.Close()

	// Stored images never change once written.
	c.Header("Cache-Control", "public, max-age=3600, immutable")

	respond.JPEG(c, http.StatusOK, reader)
}

// Sweep requests an immediate garbage collection pass.
func (h *Handler) Sweep(c *ginext.Context) {
	id, err := h.service.RequestSweep(c.Request.Context())
	if err != nil {
		zlog.Logger.Err(err).Msg("failed to request sweep")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to request sweep"))
		return
	}

	respond.Accepted(c, map[string]interface{}{"request_id": id})
}
