package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/output"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/scoring"
)

// handleOutline structures an uploaded document and responds with the
// result directly.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format, err := output.ParseFormat(r.FormValue("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	weights, err := s.parseWeights(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, data, status, err := s.readUpload(file, header.Filename)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	spans, err := pipeline.ExtractSpans(data, filename, s.orchestrator.SourceOptions())
	if err != nil {
		s.log.Warn("extract failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	doc, ok := s.build(w, spans, weights)
	if !ok {
		return
	}
	s.writeDocument(w, doc, format)
}

// spanInput is one span of a caller-supplied document. Style fields are
// candidates: bold is also derived from the font name and upper from the text.
type spanInput struct {
	Page      int          `json:"page_id"`
	Paragraph int          `json:"paragraph_id"`
	Line      int          `json:"line_id"`
	Index     *int         `json:"span_id,omitempty"`
	BBox      doctree.BBox `json:"bbox"`
	Text      string       `json:"text"`
	Size      float64      `json:"size"`
	Font      string       `json:"font"`
	Color     int          `json:"color"`
	Bold      bool         `json:"bold"`
}

type spansRequest struct {
	Spans   []spanInput      `json:"spans"`
	Weights *scoring.Weights `json:"weights,omitempty"`
	Format  string           `json:"format,omitempty"`
}

// handleOutlineSpans structures spans sent as JSON.
func (s *Server) handleOutlineSpans(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req spansRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	formatName := req.Format
	if q := r.URL.Query().Get("format"); q != "" {
		formatName = q
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	weights := s.orchestrator.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	spans := make([]doctree.Span, len(req.Spans))
	for i, in := range req.Spans {
		idx := i
		if in.Index != nil {
			idx = *in.Index
		}
		spans[i] = doctree.Span{
			Page:      in.Page,
			Paragraph: in.Paragraph,
			Line:      in.Line,
			Index:     idx,
			BBox:      in.BBox,
			Text:      in.Text,
			Style:     doctree.NewStyle(in.Size, in.Font, in.Color, in.Bold, in.Text),
		}
	}

	doc, ok := s.build(w, spans, weights)
	if !ok {
		return
	}
	s.writeDocument(w, doc, format)
}

// build loads spans into a document, recording its latency. It writes the
// error response itself and reports false on failure.
func (s *Server) build(w http.ResponseWriter, spans []doctree.Span, weights scoring.Weights) (*outline.Document, bool) {
	start := time.Now()
	doc, err := outline.Load(spans, weights)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, outline.ErrSpanOrder) || errors.Is(err, outline.ErrMissingStyle) ||
			errors.Is(err, outline.ErrStyleSize) || weights.Validate() != nil {
			code = http.StatusBadRequest
		}
		jsonError(w, err.Error(), code)
		return nil, false
	}
	s.orchestrator.Stats().Record(time.Since(start), len(spans))
	return doc, true
}

// writeDocument renders doc fully before writing so a render error can still
// produce an error response.
func (s *Server) writeDocument(w http.ResponseWriter, doc *outline.Document, format output.Format) {
	var buf bytes.Buffer
	if err := output.Document(&buf, doc, format, s.chunkConfig()); err != nil {
		s.log.Error("render failed", "format", format, "error", err)
		jsonError(w, "failed to render result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}
