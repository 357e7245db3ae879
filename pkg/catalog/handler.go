package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/binder"
	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/validator"
)

// Handler exposes the catalog and file uploads over HTTP.
//
//	h := catalog.NewHandler(svc, storage, names, catalog.WithAuth(mgr.RequireSession))
//	r.Mount("/api/videos", h.Videos())
//	r.Mount("/api/uploads", h.Uploads())
type Handler struct {
	svc          *Service
	storage      file.Storage
	names        *file.Obfuscator
	cfg          Config
	auth         func(http.Handler) http.Handler
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuth guards the write routes with middleware.
func WithAuth(mw func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		if mw != nil {
			h.auth = mw
		}
	}
}

// WithHandlerConfig sets upload limits.
func WithHandlerConfig(cfg Config) HandlerOption {
	return func(h *Handler) {
		h.cfg = cfg
	}
}

// WithErrorHandler sets the error handler used for bind failures.
func WithErrorHandler(eh handler.ErrorHandler[handler.Context]) HandlerOption {
	return func(h *Handler) {
		h.errorHandler = eh
	}
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(svc *Service, storage file.Storage, names *file.Obfuscator, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:     svc,
		storage: storage,
		names:   names,
		cfg:     DefaultConfig(),
		auth:    func(next http.Handler) http.Handler { return next },
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Handler("catalog"))
	return h
}

// Videos returns the routes:
//
//	GET  /             active videos, newest first
//	POST /             create a video (guarded)
//	GET  /{id}         one video
//	POST /{id}/views   count a view; always 204
func (h *Handler) Videos() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(h.list,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.With(h.auth).Post("/", handler.Wrap(h.create,
		handler.WithBinders[handler.Context, NewVideo](binder.JSON()),
		handler.WithErrorHandler[handler.Context, NewVideo](h.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(h.get,
		handler.WithBinders[handler.Context, VideoRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, VideoRequest](h.errorHandler),
	))
	r.Post("/{id}/views", handler.Wrap(h.view,
		handler.WithBinders[handler.Context, VideoRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, VideoRequest](h.errorHandler),
	))
	return r
}

// Uploads returns the routes:
//
//	POST /{kind}   store a video or thumbnail under an obfuscated name (guarded)
func (h *Handler) Uploads() http.Handler {
	r := chi.NewRouter()
	r.With(h.auth).Post("/{kind}", handler.Wrap(h.upload,
		handler.WithBinders[handler.Context, UploadRequest](binder.Path(chi.URLParam), binder.Form()),
		handler.WithErrorHandler[handler.Context, UploadRequest](h.errorHandler),
	))
	return r
}

// VideoRequest carries the id path parameter.
type VideoRequest struct {
	ID string `path:"id"`
}

// UploadRequest is the multipart body of POST /api/uploads/{kind}.
type UploadRequest struct {
	Kind string                `path:"kind"`
	File *multipart.FileHeader `file:"file"`
}

// VideoResponse is a video with resolved file URLs.
type VideoResponse struct {
	*Video
	VideoURL     string `json:"videoUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// UploadResponse describes a stored upload.
type UploadResponse struct {
	FileID       string `json:"fileId"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MIMEType     string `json:"mimeType"`
}

func (h *Handler) respond(v *Video) VideoResponse {
	return VideoResponse{
		Video:        v,
		VideoURL:     FileURL(h.storage, v, file.KindVideo),
		ThumbnailURL: FileURL(h.storage, v, file.KindThumbnail),
	}
}

func (h *Handler) list(ctx handler.Context, _ struct{}) handler.Response {
	videos, err := h.svc.List(ctx, Filter{ActiveOnly: true, Limit: h.cfg.ListLimit})
	if err != nil {
		return handler.JSONError(err)
	}
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, h.respond(v))
	}
	return handler.JSON(out)
}

func (h *Handler) create(ctx handler.Context, req NewVideo) handler.Response {
	v, err := h.svc.Create(ctx, req)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(h.respond(v), handler.WithJSONStatus(http.StatusCreated))
}

func (h *Handler) get(ctx handler.Context, req VideoRequest) handler.Response {
	v, err := h.svc.Get(ctx, req.ID)
	if errors.Is(err, ErrNotFound) {
		return handler.JSONError(handler.ErrNotFound.WithMessage("video not found"))
	}
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(h.respond(v))
}

func (h *Handler) view(ctx handler.Context, req VideoRequest) handler.Response {
	h.svc.IncrementViews(ctx, req.ID)
	return handler.Empty()
}

func (h *Handler) upload(ctx handler.Context, req UploadRequest) handler.Response {
	kind := file.Kind(req.Kind)
	if !kind.Valid() {
		return handler.JSONError(handler.ErrNotFound.WithMessage(fmt.Sprintf("unknown upload kind %q", req.Kind)))
	}
	if req.File == nil {
		return handler.JSONError(validator.Fail("file", "required", "is required"))
	}
	if err := file.ValidateSize(req.File, h.cfg.maxBytes(kind == file.KindThumbnail)); err != nil {
		return handler.JSONError(handler.NewHTTPError(http.StatusRequestEntityTooLarge, "file_too_large").WithMessage(err.Error()))
	}
	if err := file.ValidateKind(req.File, kind); err != nil {
		return handler.JSONError(handler.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type").WithMessage(err.Error()))
	}

	name, err := h.names.Build(req.File.Filename, kind)
	if err != nil {
		return handler.JSONError(err)
	}

	src, err := req.File.Open()
	if err != nil {
		return handler.JSONError(err)
	}
	defer func() { _ = src.Close() }()

	obj, err := h.storage.Put(ctx, kind.Bucket(), name, src, req.File.Size)
	if err != nil {
		h.log.ErrorContext(ctx, "upload failed", logger.Bucket(kind.Bucket()), logger.Error(err))
		return handler.JSONError(err)
	}

	return handler.JSON(UploadResponse{
		FileID:       obj.Name,
		OriginalName: file.SanitizeFilename(req.File.Filename),
		URL:          h.storage.URL(kind.Bucket(), obj.Name),
		Size:         obj.Size,
		MIMEType:     file.MIMEType(obj.Name),
	}, handler.WithJSONStatus(http.StatusCreated))
}
