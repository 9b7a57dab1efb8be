package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvasrender/pkg/buildinfo"
	"github.com/matzehuels/canvasrender/pkg/cache"
	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/io"
	"github.com/matzehuels/canvasrender/pkg/pipeline"
	"github.com/matzehuels/canvasrender/pkg/scene"
	"github.com/matzehuels/canvasrender/pkg/surface/ggsurface"
)

const (
	defaultAddr     = ":8080"
	maxSceneBytes   = 4 << 20
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

type serveOpts struct {
	addr      string
	redisAddr string
	fontDirs  []string
	noCache   bool
	allowFile bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Serve runs the render API:

  POST /render    scene JSON or YAML body, returns the encoded image
                  (query: format=png|jpg, quality=1-100, no_cache=true)
  GET  /schema    scene description schema
  GET  /healthz   liveness and version

With --redis, rendered artifacts and downloaded images are shared through
Redis so several instances reuse each other's work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = c.Config.Server.Addr
			}
			if opts.addr == "" {
				opts.addr = defaultAddr
			}
			if opts.redisAddr == "" {
				opts.redisAddr = c.Config.Cache.RedisAddr
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default \":8080\")")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address or redis:// URL for the shared cache")
	cmd.Flags().StringSliceVar(&opts.fontDirs, "font-dir", nil, "additional font directory (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.allowFile, "allow-file-images", false, "allow scenes to reference local image files")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServer(runner, logger, c.renderOptions("", 0, opts.fontDirs, opts.noCache)).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", opts.addr)
	printKeyValue("cache", c.cacheSummary(opts))
	printKeyValue("version", buildinfo.Version)
	if opts.allowFile {
		printWarning("Scenes may read local image files")
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServeRunner builds the server runner. Redis, when configured, backs the
// render cache and acts as the shared layer of the image fetcher.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	renderer, err := c.newRenderer(opts.fontDirs)
	if err != nil {
		return nil, err
	}
	host := renderer.Host.(*ggsurface.Host)
	host.NoFiles = !opts.allowFile

	if opts.redisAddr == "" {
		return pipeline.NewRunner(c.newCache(opts.noCache), nil, renderer, c.Logger), nil
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect redis %s", opts.redisAddr)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	host.Fetcher.Shared = rc
	host.Fetcher.Keyer = keyer
	c.Logger.Info("using redis cache", "addr", opts.redisAddr)

	var artifacts cache.Cache = rc
	if opts.noCache {
		artifacts = cache.NewNullCache()
	}
	return pipeline.NewRunner(artifacts, keyer, renderer, c.Logger), nil
}

func (c *CLI) cacheSummary(opts serveOpts) string {
	switch {
	case opts.noCache:
		return "disabled"
	case opts.redisAddr != "":
		return "redis " + opts.redisAddr
	}
	return c.cacheDir()
}

// =============================================================================
// HTTP API
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
}

func newServer(runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options) *server {
	return &server{runner: runner, logger: logger, defaults: defaults}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Post("/render", s.handleRender)
	r.Get("/schema", s.handleSchema)
	r.Get("/healthz", s.handleHealth)
	return r
}

// requestID tags each request with a UUID, honoring a valid incoming one,
// and attaches a logger carrying it.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())
	start := time.Now()

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = logger

	body := http.MaxBytesReader(w, r.Body, maxSceneBytes)
	sc, err := io.DecodeScene(body, sceneFormat(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Render(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(res.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Scene-Hash", res.SceneHash)
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		logger.Debug("write response", "error", err)
	}
	logger.Debug("served render", "bytes", len(res.Data), "cached", res.CacheHit, "duration", time.Since(start))
}

// requestOptions reads format, quality and no_cache from the query.
func (s *server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if v := q.Get("quality"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidFormat, "quality %q is not a number", v)
		}
		opts.Quality = n
	}
	if v := q.Get("no_cache"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "no_cache %q is not a boolean", v)
		}
		opts.NoCache = opts.NoCache || b
	}
	return opts, nil
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(scene.Schema()))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errs.GetCode(err))
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		status, code = http.StatusRequestEntityTooLarge, string(errs.ErrCodeInvalidInput)
	}
	if code == "" {
		code = string(errs.ErrCodeInternal)
	}

	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "code", code, "error", err)
	} else {
		logger.Debug("rejected request", "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   errs.UserMessage(err),
		RequestID: w.Header().Get(requestIDHeader),
	})
}

// statusFor maps error codes to HTTP statuses: scene problems are the
// client's, failing collaborators are a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	if errs.IsConfiguration(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeImageLoad, errs.ErrCodeNetwork, errs.ErrCodeNotFound:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func sceneFormat(contentType string) io.Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return io.FormatYAML
	case strings.Contains(ct, "json"):
		return io.FormatJSON
	}
	return io.FormatAuto
}

func contentType(format string) string {
	if format == pipeline.FormatJPG {
		return "image/jpeg"
	}
	return "image/png"
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
