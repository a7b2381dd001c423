package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/miradorstack/spacex-dash/internal/callbacks"
	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/render"
)

const maxCallbackBody = 64 << 10

type summaryResponse struct {
	Summary models.DatasetSummary   `json:"summary"`
	Options []models.DropdownOption `json:"options"`
	Slider  models.SliderSpec       `json:"slider"`
}

// outputResult is one callback result as sent to the page.
type outputResult struct {
	Output callbacks.Output `json:"output"`
	Figure any              `json:"figure"`
	Image  string           `json:"image"`
}

type callbackResponse struct {
	Results []outputResult `json:"results"`
}

type pageData struct {
	Options []models.DropdownOption
	Slider  models.SliderSpec
	Initial template.JS
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel := s.svc.DefaultSelection()
	results, err := s.registry.DispatchAll(r.Context(), sel)
	if err != nil {
		s.logger.Error("initial render failed", slog.Any("error", err))
		http.Error(w, "initial render failed", http.StatusInternalServerError)
		return
	}
	initial, err := json.Marshal(s.outputResults(results, sel))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Options: s.svc.DropdownOptions(),
		Slider:  s.svc.Slider(),
		Initial: template.JS(initial),
	})
	if err != nil {
		s.logger.Error("page template failed", slog.Any("error", err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: s.svc.Summary(),
		Options: s.svc.DropdownOptions(),
		Slider:  s.svc.Slider(),
	})
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query(), s.svc.Summary())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.PieChartData(sel))
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query(), s.svc.Summary())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.ScatterChartData(sel))
}

func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	name, ext, ok := strings.Cut(r.PathValue("file"), ".")
	if !ok {
		http.NotFound(w, r)
		return
	}
	format, err := render.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	summary := s.svc.Summary()
	sel, err := selectionFromQuery(r.URL.Query(), summary)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := render.Options{Width: s.opts.Width, Height: s.opts.Height, Format: format}
	var buf bytes.Buffer
	switch name {
	case "pie":
		err = render.Pie(&buf, s.svc.PieChartData(sel), opts)
	case "scatter":
		err = render.Scatter(&buf, s.svc.ScatterChartData(sel), summary.FullRange(), opts)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("chart render failed", slog.String("chart", name), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCallbacks(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCallbackBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode callback request: %w", err))
		return
	}
	inputs, err := req.inputs()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sel := req.State.selection(s.svc.Summary())
	var results []callbacks.Result
	if len(inputs) == 0 {
		results, err = s.registry.DispatchAll(r.Context(), sel)
	} else {
		results, err = s.registry.Dispatch(r.Context(), inputs, sel)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, r.Context().Err()) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Error("callback dispatch failed", slog.Any("error", err))
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, callbackResponse{Results: s.outputResults(results, sel)})
}

// outputResults attaches the image URL each output should display.
func (s *Server) outputResults(results []callbacks.Result, sel models.Selection) []outputResult {
	out := make([]outputResult, 0, len(results))
	query := chartQuery(sel)
	for _, res := range results {
		var image string
		switch res.Output {
		case callbacks.OutputSuccessPie:
			image = fmt.Sprintf("/charts/pie.%s?%s", s.opts.ImageFormat, query)
		case callbacks.OutputPayloadScatter:
			image = fmt.Sprintf("/charts/scatter.%s?%s", s.opts.ImageFormat, query)
		}
		out = append(out, outputResult{Output: res.Output, Figure: res.Value, Image: image})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
