package cli

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
	"github.com/Delen0828/gramm-export-to-vega/pkg/observability"
	"github.com/Delen0828/gramm-export-to-vega/pkg/pipeline"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// defaultAddr is the fallback listen address for the serve command.
const defaultAddr = "localhost:8632"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local compile-and-preview server",
		Long: `Run a local compile-and-preview server.

The server accepts analysis contexts over HTTP, compiles them, and serves the
resulting specs together with a browser preview page:

  POST /compile          compile a context, returns {"id", "spec_url", "preview_url"}
  GET  /spec/{id}.json   the compiled Vega spec
  GET  /preview/{id}     an HTML page rendering the spec
  GET  /healthz          liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}
			if addr == "" {
				addr = defaultAddr
			}
			runner, err := c.newRunner(cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := newServer(runner, c.Logger)
			printInfo("Serving on %s", StyleLink.Render("http://"+addr))
			printNextStep("Compile a context", fmt.Sprintf("curl -X POST --data-binary @context.json http://%s/compile", addr))

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				_ = httpSrv.Close()
			}()
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default localhost:8632)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./vegaexport.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

// storedSpec is one compiled spec retained for preview.
type storedSpec struct {
	JSON  []byte
	Title string
}

// server holds the preview server state: a runner plus an in-memory store of
// compiled specs keyed by id.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger

	mu    sync.RWMutex
	specs map[string]storedSpec
}

func newServer(runner *pipeline.Runner, logger *log.Logger) *server {
	if logger == nil {
		logger = log.Default()
	}
	return &server{
		runner: runner,
		logger: logger,
		specs:  make(map[string]storedSpec),
	}
}

// routes assembles the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.loggerMiddleware)
	r.Use(hooksMiddleware)

	r.Post("/compile", s.handleCompile)
	r.Get("/spec/{id}.json", s.handleSpec)
	r.Get("/preview/{id}", s.handlePreview)
	r.Get("/healthz", s.handleHealth)
	return r
}

// loggerMiddleware attaches the server logger to each request context.
func (s *server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), s.logger)))
	})
}

// hooksMiddleware reports requests to the observability registry.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// compileRequest is the POST /compile payload. The context is the standard
// analysis-context document; options follow the string-valued option
// contract.
type compileRequest struct {
	Context json.RawMessage `json:"context"`
	Options map[string]any  `json:"options,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// compileResponse is the POST /compile reply.
type compileResponse struct {
	ID         string   `json:"id"`
	SpecURL    string   `json:"spec_url"`
	PreviewURL string   `json:"preview_url"`
	Removed    int      `json:"removed"`
	Warnings   []string `json:"warnings,omitempty"`
	Notes      []string `json:"notes,omitempty"`
	CacheHit   bool     `json:"cache_hit"`
}

func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.Context) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing context"))
		return
	}

	opts, err := plot.ParseOptions(req.Options)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Context, pipeline.Options{
		Plot:    opts,
		Refresh: req.Refresh,
		Logger:  loggerFromContext(r.Context()),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsFatal(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.specs[id] = storedSpec{JSON: result.SpecJSON, Title: opts.Title}
	s.mu.Unlock()

	resp := compileResponse{
		ID:         id,
		SpecURL:    "/spec/" + id + ".json",
		PreviewURL: "/preview/" + id,
		Removed:    result.Removed,
		Notes:      result.Notes,
		CacheHit:   result.CacheHit,
	}
	for _, warn := range result.Warnings {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	stored, ok := s.specs[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeSpecNotFound, "unknown spec %q", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(stored.JSON)
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	stored, ok := s.specs[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeSpecNotFound, "unknown spec %q", id))
		return
	}
	title := stored.Title
	if title == "" {
		title = appName
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = vega.WriteHTML(w, title, "/spec/"+id+".json")
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
