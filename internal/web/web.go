// Package web serves the dashboard: one page of operation forms mirroring
// the desktop layout, plus health and metrics endpoints.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/limiter"
	"github.com/local/pdfdesk/internal/metrics"
	"github.com/local/pdfdesk/internal/operr"
	"github.com/local/pdfdesk/internal/ops"
	"github.com/local/pdfdesk/internal/statuscheck"
)

//go:embed templates/*.html
var templateFS embed.FS

// Defaults pre-fills the dashboard forms.
type Defaults struct {
	DPI    int
	Format string
	OutDir string
}

// Web holds the dashboard state shared by all handlers.
type Web struct {
	tpl      *template.Template
	svc      *ops.Service
	gate     *limiter.Gate
	checker  *statuscheck.Checker
	defaults Defaults
}

// New parses the embedded templates and wires the dashboard.
func New(svc *ops.Service, gate *limiter.Gate, checker *statuscheck.Checker, defaults Defaults) *Web {
	tpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	if defaults.Format == "" {
		defaults.Format = "png"
	}
	if defaults.DPI <= 0 {
		defaults.DPI = 300
	}
	return &Web{tpl: tpl, svc: svc, gate: gate, checker: checker, defaults: defaults}
}

// RegisterRoutes attaches all dashboard endpoints to mux.
func (w *Web) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", w.handleDashboard)
	mux.HandleFunc("/run/", w.handleRun)
	mux.HandleFunc("/healthz", w.handleHealthz)
	mux.Handle("/metrics", metrics.Handler())
}

var runnable = map[string]bool{
	"split":  true,
	"merge":  true,
	"word":   true,
	"images": true,
	"text":   true,
}

type view struct {
	Active    string
	Form      map[string]string
	Result    *ops.Result
	Error     string
	ErrorKind string
	Warning   string
	Status    statuscheck.Summary
	Busy      bool
	Defaults  Defaults
}

func (w *Web) newView(r *http.Request, active string) *view {
	form := map[string]string{}
	for k := range r.Form {
		form[k] = r.Form.Get(k)
	}
	if form["dpi"] == "" {
		form["dpi"] = strconv.Itoa(w.defaults.DPI)
	}
	if form["format"] == "" {
		form["format"] = w.defaults.Format
	}
	return &view{
		Active:   active,
		Form:     form,
		Status:   w.checker.Summary(),
		Busy:     w.gate.Busy(),
		Defaults: w.defaults,
	}
}

func (w *Web) render(wr http.ResponseWriter, status int, v *view) {
	wr.Header().Set("Content-Type", "text/html; charset=utf-8")
	wr.WriteHeader(status)
	if err := w.tpl.ExecuteTemplate(wr, "dashboard.html", v); err != nil {
		log.Error().Err(err).Msg("template render failed")
	}
}

func (w *Web) handleDashboard(wr http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(wr, r)
		return
	}
	if r.Method != http.MethodGet {
		wr.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.render(wr, http.StatusOK, w.newView(r, "split"))
}

func (w *Web) handleRun(wr http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		wr.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	op := strings.TrimPrefix(r.URL.Path, "/run/")
	if !runnable[op] {
		http.NotFound(wr, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		v := w.newView(r, op)
		v.Error = "invalid form"
		w.render(wr, http.StatusBadRequest, v)
		return
	}

	release, ok := w.gate.TryAcquire()
	if !ok {
		v := w.newView(r, op)
		v.Error = "an operation is already running"
		w.render(wr, http.StatusTooManyRequests, v)
		return
	}
	res, warning, err := w.dispatch(r, op)
	release()

	v := w.newView(r, op)
	v.Warning = warning
	if err != nil {
		v.Error = err.Error()
		v.ErrorKind = operr.KindOf(err).String()
		w.render(wr, operr.HTTPStatus(err), v)
		return
	}
	v.Result = &res
	w.render(wr, http.StatusOK, v)
}

// dispatch collects the form parameters for op and invokes the façade.
func (w *Web) dispatch(r *http.Request, op string) (ops.Result, string, error) {
	ctx := r.Context()
	form := r.Form

	switch op {
	case "split":
		src := strings.TrimSpace(form.Get("source"))
		res, err := w.svc.Split(ctx, src, form.Get("pages"), w.outDir(form.Get("out")))
		return res, w.svc.PreflightWarning(src), err

	case "merge":
		srcs := splitLines(form.Get("sources"))
		out := strings.TrimSpace(form.Get("out"))
		if out == "" {
			return ops.Result{Op: op}, "", operr.New(operr.KindMalformed, op, "output file path is required")
		}
		warning := ""
		for _, s := range srcs {
			if warning = w.svc.PreflightWarning(s); warning != "" {
				break
			}
		}
		res, err := w.svc.Merge(ctx, srcs, out)
		return res, warning, err

	case "word":
		src := strings.TrimSpace(form.Get("source"))
		out := strings.TrimSpace(form.Get("out"))
		if out == "" {
			return ops.Result{Op: op}, "", operr.New(operr.KindMalformed, op, "output file path is required")
		}
		res, err := w.svc.Word(ctx, src, out)
		return res, w.svc.PreflightWarning(src), err

	case "images":
		src := strings.TrimSpace(form.Get("source"))
		dpi := 0
		if v := strings.TrimSpace(form.Get("dpi")); v != "" {
			d, err := strconv.Atoi(v)
			if err != nil {
				return ops.Result{Op: op}, "", operr.New(operr.KindMalformed, op, "invalid dpi %q", v)
			}
			dpi = d
		}
		format := strings.TrimSpace(form.Get("format"))
		if format == "" {
			format = w.defaults.Format
		}
		res, err := w.svc.Images(ctx, src, w.outDir(form.Get("out")), dpi, format)
		return res, w.svc.PreflightWarning(src), err

	default: // text
		src := strings.TrimSpace(form.Get("source"))
		res, err := w.svc.Text(ctx, src, w.outDir(form.Get("out")))
		return res, w.svc.PreflightWarning(src), err
	}
}

func (w *Web) handleHealthz(wr http.ResponseWriter, r *http.Request) {
	sum := w.checker.Summary()
	code := http.StatusOK
	if !sum.Healthy() {
		code = http.StatusServiceUnavailable
	}
	wr.Header().Set("Content-Type", "application/json")
	wr.WriteHeader(code)
	_ = json.NewEncoder(wr).Encode(sum)
}

func (w *Web) outDir(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return w.defaults.OutDir
	}
	return v
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
