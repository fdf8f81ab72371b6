package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/TobiSchelling/RepMonitor/internal/news"
	"github.com/TobiSchelling/RepMonitor/internal/pipeline"
	"github.com/TobiSchelling/RepMonitor/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req news.SearchRequest) (*pipeline.Result, error)
}

// Server is the HTTP server for interactive analysis.
type Server struct {
	analyzer Analyzer
	periods  []string
	opts     report.Options
	pages    map[string]*template.Template
	mux      *http.ServeMux
}

type pageData struct {
	Topic   string
	Period  string
	Periods []string
	Error   string
	Report  string
}

// New creates a new Server. periods maps labels to days; the form lists
// them shortest first.
func New(analyzer Analyzer, periods map[string]int, opts report.Options) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone so {{define "content"}} does not collide.
	pageNames := []string{"index.html", "result.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{
		analyzer: analyzer,
		periods:  sortedPeriods(periods),
		opts:     opts,
		pages:    pages,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/analyze", s.handleAPIAnalyze)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "index.html", s.page(s.request(r)))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := s.request(r)
	data := s.page(req)

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("analysis failed", "topic", req.Topic, "err", err)
			data.Error = "Analysis failed."
		} else {
			data.Error = validationMessage(err)
		}
		s.render(w, status, "index.html", data)
		return
	}

	data.Report = report.Markdown(result, s.opts)
	s.render(w, http.StatusOK, "result.html", data)
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	req := s.request(r)

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		msg := validationMessage(err)
		if status == http.StatusInternalServerError {
			slog.Error("analysis failed", "topic", req.Topic, "err", err)
			msg = "analysis failed"
		}
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// request reads topic and period from the query string, defaulting the
// period to the shortest configured one.
func (s *Server) request(r *http.Request) news.SearchRequest {
	req := news.SearchRequest{
		Topic:  strings.TrimSpace(r.URL.Query().Get("topic")),
		Period: r.URL.Query().Get("period"),
	}
	if req.Period == "" && len(s.periods) > 0 {
		req.Period = s.periods[0]
	}
	return req
}

func (s *Server) page(req news.SearchRequest) pageData {
	return pageData{Topic: req.Topic, Period: req.Period, Periods: s.periods}
}

func statusFor(err error) int {
	if errors.Is(err, news.ErrEmptyQuery) || errors.Is(err, news.ErrUnknownPeriod) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func validationMessage(err error) string {
	if errors.Is(err, news.ErrEmptyQuery) {
		return "Please enter a topic."
	}
	return err.Error()
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	tmpl, ok := s.pages[name]
	if !ok {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("rendering template", "name", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func sortedPeriods(periods map[string]int) []string {
	labels := make([]string, 0, len(periods))
	for label := range periods {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		di, dj := periods[labels[i]], periods[labels[j]]
		if di != dj {
			return di < dj
		}
		return labels[i] < labels[j]
	})
	return labels
}

// Serve starts the HTTP server on the given port.
func Serve(analyzer Analyzer, periods map[string]int, opts report.Options, port int) error {
	srv, err := New(analyzer, periods, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	slog.Info("server listening", "url", "http://"+addr)
	return http.ListenAndServe(addr, srv.Handler())
}
