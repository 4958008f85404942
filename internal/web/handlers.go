package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/gencsv/internal/config"
	"github.com/JonMunkholm/gencsv/internal/core"
	"github.com/JonMunkholm/gencsv/internal/logging"
	"github.com/JonMunkholm/gencsv/internal/output"
	"github.com/JonMunkholm/gencsv/internal/table"
)

const defaultRows = 10

// TypesResponse lists the recognised type tags.
type TypesResponse struct {
	Types []string `json:"types"`
}

// TableResponse is the JSON rendering of a generated table.
type TableResponse struct {
	Columns []string `json:"columns"`
	Kinds   []string `json:"kinds"`
	Rows    [][]any  `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":  "ok",
		"limiter": s.limiter.Status(),
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	tags := s.registry.Tags()
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.String()
	}
	writeJSON(w, r, TypesResponse{Types: names})
}

// handleGenerate serves GET /api/generate?schema=&rows=&delete=&format=csv|json.
// CSV output also accepts delimiter= and header=false.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		s.respondError(w, r, fmt.Errorf("%w: format %q", core.ErrInvalidParam, format))
		return
	}

	delimiter := ','
	if d := q.Get("delimiter"); d != "" {
		if err := config.ValidateDelimiter(d); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: delimiter %w", core.ErrInvalidParam, err))
			return
		}
		delimiter = []rune(d)[0]
	}

	noHeader := false
	if h := q.Get("header"); h != "" {
		b, err := strconv.ParseBool(h)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: header %q", core.ErrInvalidParam, h))
			return
		}
		noHeader = !b
	}

	t, err := s.generate(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if format == "json" {
		writeJSON(w, r, tableResponse(t))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="generated.csv"`)
	out := &output.Console{W: w, Delimiter: delimiter, NoHeader: noHeader}
	if err := out.Write(r.Context(), t); err != nil {
		// Headers are gone; all that is left is the log.
		s.logWriteError(r, err)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	t, err := s.generate(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := PreviewPage(r.URL.Query().Get("schema"), t).Render(r.Context(), w); err != nil {
		s.logWriteError(r, err)
	}
}

// generate parses the shared schema, rows and delete parameters and runs the
// pipeline under the concurrency limiter. Append targets are never read over HTTP.
func (s *Server) generate(r *http.Request) (*table.Table, error) {
	q := r.URL.Query()

	rows := defaultRows
	if v := q.Get("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: rows %q", core.ErrInvalidParam, v)
		}
		rows = n
	}
	if rows > s.cfg.MaxRows {
		return nil, fmt.Errorf("%w: %d (max %d)", core.ErrRowLimit, rows, s.cfg.MaxRows)
	}

	req := core.Request{
		Schema:        q.Get("schema"),
		DefaultSchema: !q.Has("schema"),
		Rows:          rows,
		DeleteTarget:  q.Get("delete"),
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	return s.service.Generate(r.Context(), req)
}

func (s *Server) logWriteError(r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn("write response", "path", r.URL.Path, "error", err)
}

func tableResponse(t *table.Table) TableResponse {
	kinds := t.Kinds()
	resp := TableResponse{
		Columns: t.Names(),
		Kinds:   make([]string, len(kinds)),
		Rows:    make([][]any, t.Height()),
	}
	for i, k := range kinds {
		resp.Kinds[i] = k.String()
	}
	for i := range resp.Rows {
		resp.Rows[i] = t.Row(i)
	}
	return resp
}
