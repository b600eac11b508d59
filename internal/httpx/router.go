package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/sem_planner/internal/form"
	"github.com/AngelCh415/sem_planner/internal/metrics"
	"github.com/AngelCh415/sem_planner/internal/render"
	"github.com/AngelCh415/sem_planner/internal/utils"
	"github.com/AngelCh415/sem_planner/internal/viewstate"
)

type console struct {
	log *slog.Logger
	b   *form.Builder
	vm  *viewstate.Machine
	mc  *metrics.Collector

	mu      sync.Mutex
	heading string // marcas del último request enviado

	submitMu sync.Mutex // serializa POST /plan: chequeo, edición y Start
}

func NewRouter(log *slog.Logger, b *form.Builder, vm *viewstate.Machine, mc *metrics.Collector, g prometheus.Gatherer) http.Handler {
	c := &console{log: log, b: b, vm: vm, mc: mc}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	mux.Get("/", c.index)
	mux.Post("/plan", c.submit)
	mux.Get("/api/state", c.state)

	return mux
}

func (c *console) index(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusOK, nil, "")
}

func (c *console) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	// rechazado: no toca los valores del formulario
	if c.vm.Current().Status == viewstate.Submitting {
		c.page(w, r, http.StatusConflict, nil, viewstate.ErrInFlight.Error())
		return
	}
	if name, ok := unknownField(r.PostForm); ok {
		http.Error(w, "unknown field "+name, http.StatusBadRequest)
		return
	}
	for _, f := range form.Fields {
		if _, ok := r.PostForm[f.Name]; ok {
			if err := c.b.Set(f.Name, r.PostForm.Get(f.Name)); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	req, err := c.b.Build()
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		c.page(w, r, http.StatusBadRequest, verr, "")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// sin cancelación: la llamada sigue aunque el navegador se vaya
	if _, err := c.vm.Start(context.WithoutCancel(r.Context()), req); err != nil {
		if errors.Is(err, viewstate.ErrInFlight) {
			c.page(w, r, http.StatusConflict, nil, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c.mu.Lock()
	c.heading = form.BrandLabel(req.BrandURL) + " vs " + form.BrandLabel(req.CompetitorURL)
	c.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *console) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.vm.Current())
}

// notice, si no está vacío, reemplaza el mensaje de error del estado.
func (c *console) page(w http.ResponseWriter, r *http.Request, status int, verr *form.ValidationError, notice string) {
	st := c.vm.Current()
	vals := c.b.Values()

	c.mu.Lock()
	heading := c.heading
	c.mu.Unlock()

	p := render.Page{
		Fields:      fieldsFor(vals, verr),
		Submitting:  st.Status == viewstate.Submitting,
		Message:     st.Message,
		ShowResults: st.Status == viewstate.Success && st.Response != nil,
		Heading:     heading,
	}
	if notice != "" {
		p.Message = notice
	}
	if p.ShowResults {
		p.Sections = render.Sections(st.Response)
		for _, s := range p.Sections {
			c.mc.SectionRendered(string(s.Kind))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.WriteHTML(w, p); err != nil {
		c.log.Error("render page", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
