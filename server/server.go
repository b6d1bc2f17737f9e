package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"press_release_drafter/docx"
	"press_release_drafter/generator"
	"press_release_drafter/pressrelease"
)

//go:embed web
var embeddedStatic embed.FS

const (
	draftsPath    = "/api/drafts"
	downloadsPath = "/api/downloads/"
)

// Options tune the HTTP surface.
type Options struct {
	// Filename is offered to the browser for every download.
	Filename string
	// DownloadTTL bounds how long a finished document can be downloaded.
	DownloadTTL time.Duration
	// RequestTimeout bounds one generation request.
	RequestTimeout time.Duration
}

type Server struct {
	pipeline *pressrelease.Pipeline
	variant  generator.Variant
	opts     Options
	store    *downloadStore
	staticFS http.Handler
	logger   *zap.Logger
}

func New(pipeline *pressrelease.Pipeline, variant generator.Variant, opts Options, logger *zap.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline required")
	}
	if opts.Filename == "" {
		opts.Filename = "Generated_Press_Release.docx"
	}
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = 10 * time.Minute
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 90 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline: pipeline,
		variant:  variant,
		opts:     opts,
		store:    newStore(opts.DownloadTTL, time.Now),
		staticFS: http.FileServer(http.FS(sub)),
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(draftsPath, s.handleDraftCreate)
	mux.HandleFunc(downloadsPath, s.handleDownload)
	mux.Handle("/", s.staticHandler())
	return logMiddleware(s.logger, mux)
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type draftCreateReq struct {
	Notes string `json:"notes"`
}

type draftResp struct {
	DraftID        string          `json:"draft_id"`
	Variant        string          `json:"variant"`
	Draft          generator.Draft `json:"draft"`
	PreviewHTML    string          `json:"preview_html"`
	DocumentText   string          `json:"document_text"`
	MissingMarkers []string        `json:"missing_markers"`
	DownloadURL    string          `json:"download_url"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleDraftCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req draftCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorResp{Error: "invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	defer cancel()
	res, err := s.pipeline.Run(ctx, req.Notes)
	switch {
	case errors.Is(err, generator.ErrGeneration):
		writeJSONStatus(w, http.StatusBadGateway, errorResp{Error: generator.FailureMessage})
		return
	case errors.Is(err, pressrelease.ErrMarkerMissing):
		writeJSONStatus(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("building press release", zap.Error(err))
		writeJSONStatus(w, http.StatusInternalServerError, errorResp{Error: "failed to build the press release document"})
		return
	}

	preview, err := pressrelease.RenderPreview(res.Draft)
	if err != nil {
		s.logger.Warn("rendering preview", zap.Error(err))
	}

	id := s.store.put(res.Document)
	writeJSON(w, draftResp{
		DraftID:        id,
		Variant:        string(s.variant),
		Draft:          res.Draft,
		PreviewHTML:    preview,
		DocumentText:   res.DocumentText,
		MissingMarkers: res.Report.Missing,
		DownloadURL:    downloadsPath + id,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, downloadsPath)
	if id == "" {
		http.NotFound(w, r)
		return
	}
	doc, ok := s.store.get(id)
	if !ok {
		http.Error(w, "download not found or expired", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", docx.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.opts.Filename+`"`)
	http.ServeContent(w, r, s.opts.Filename, time.Time{}, doc)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
