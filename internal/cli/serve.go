package cli

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/cache"
	perrors "github.com/matzehuels/editplot/pkg/errors"
	"github.com/matzehuels/editplot/pkg/observability"
	"github.com/matzehuels/editplot/pkg/render"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command. The document is read again on
// every request, so edits show up on reload.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a JSON document and its rendering over HTTP",
		Long: `Serve starts an HTTP server for one document:

  /                  page showing the figure and its panels
  /figure.{format}   the rendered figure, e.g. /figure.svg or /figure.png?scale=2
  /document          the JSON document itself

The document is read on every request, so edits show up on reload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Serve.Addr
			}
			return c.runServe(cmd.Context(), args[0], addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "render every request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)
	if _, _, err := readDocument(input); err != nil {
		return err
	}

	store := c.newCache(noCache)
	defer store.Close()

	s := &server{cli: c, path: input, cache: store, logger: logger}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Serving %s", input)
	printKeyValue("URL", StyleLink.Render("http://"+addr+"/"))
	printDetail("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
		return ctx.Err()
	}
}

// server handles the HTTP routes of the serve command.
type server struct {
	cli    *CLI
	path   string
	cache  cache.Cache
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/document", s.handleDocument)
	r.Get("/figure.{format}", s.handleFigure)
	return r
}

// logRequests logs each request at debug level with its status and duration.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), s.logger)))
		route := chi.RouteContext(r.Context()).RoutePattern()
		observability.HTTP().OnRequest(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *server) handleFigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := perrors.ValidateFormat(format, render.Formats); err != nil {
		s.error(w, err)
		return
	}
	scale := s.cli.config.Render.Scale
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 10 {
			s.error(w, perrors.New(perrors.ErrCodeInvalidInput, "scale %q must be a number in (0, 10]", v))
			return
		}
		scale = f
	}

	raw, doc, err := readDocument(s.path)
	if err != nil {
		s.error(w, err)
		return
	}

	data, hit, err := s.cli.cachedRender(ctx, s.cache, raw, doc, format, scale)
	if err != nil {
		s.error(w, err)
		return
	}
	if data == nil {
		http.Error(w, "no data to plot", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	raw, _, err := readDocument(s.path)
	if err != nil {
		s.error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(raw)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
img { max-width: 100%; border: 1px solid #ddd; }
table { border-collapse: collapse; margin-top: 1rem; }
td, th { padding: .25rem .75rem; border-bottom: 1px solid #eee; text-align: left; }
nav a { margin-right: .75rem; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<nav>{{range .Formats}}<a href="/figure.{{.}}">{{.}}</a>{{end}}<a href="/document">json</a></nav>
<p><img src="/figure.svg" alt="{{.Name}}"></p>
<table>
<tr><th>Panel</th><th>Title</th><th>Lines</th><th>Scatter</th><th>Patches</th><th>Images</th></tr>
{{range .Panels}}<tr><td>{{.Position}}</td><td>{{.Title}}</td><td>{{.Lines}}</td><td>{{.Collections}}</td><td>{{.Patches}}</td><td>{{.Images}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type indexPanel struct {
	Position    string
	Title       string
	Lines       int
	Collections int
	Patches     int
	Images      int
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, doc, err := readDocument(s.path)
	if err != nil {
		s.error(w, err)
		return
	}
	panels := make([]indexPanel, len(doc))
	for i, p := range doc {
		panels[i] = indexPanel{
			Position:    panelPosition(p),
			Title:       p.Metadata.Title,
			Lines:       len(p.Lines),
			Collections: len(p.Collections),
			Patches:     len(p.Patches),
			Images:      len(p.Images),
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, struct {
		Name    string
		Formats []string
		Panels  []indexPanel
	}{filepath.Base(s.path), []string{render.FormatSVG, render.FormatPNG, render.FormatPDF}, panels})
	if err != nil {
		s.logger.Debug("index template", "err", err)
	}
}

// error writes err with a status derived from its code.
func (s *server) error(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, perrors.UserMessage(err), status)
}

func httpStatus(err error) int {
	if errors.Is(err, context.Canceled) {
		return 499
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusUnprocessableEntity
	}
	switch perrors.GetCode(err) {
	case perrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeUnsupportedFormat, perrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case perrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case perrors.ErrCodeInvalidDocument, perrors.ErrCodeMissingKey, perrors.ErrCodeLengthMismatch,
		perrors.ErrCodeInvalidColor, perrors.ErrCodeInvalidLineStyle, perrors.ErrCodeInvalidArray,
		perrors.ErrCodeInvalidAspect, perrors.ErrCodeInvalidShape:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
