package server

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/compare"
	"github.com/mcncl/jsondelta/internal/convert"
	"github.com/mcncl/jsondelta/internal/logging"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/report"
	"github.com/mcncl/jsondelta/internal/samples"
	"github.com/mcncl/jsondelta/internal/tree"
)

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "compare failed", err)
		return
	}
	left, err := document(body, "left")
	if err != nil {
		s.writeError(w, r, "left document is invalid", err)
		return
	}
	right, err := document(body, "right")
	if err != nil {
		s.writeError(w, r, "right document is invalid", err)
		return
	}
	settings := settingsFrom(objectField(body, "settings"))

	start := time.Now()
	diffs, err := s.comparer.Compare(r.Context(), left, right, settings)
	if err != nil {
		s.writeError(w, r, "compare failed", err)
		return
	}
	duration := time.Since(start)

	stats := report.CalculateStats(diffs)
	logging.FromContext(r.Context()).Debug("comparison finished", "differences", stats.Total, "duration", duration)

	s.writeSuccess(w, r, models.ObjectOf(
		"timestamp", s.now().Format(time.RFC3339),
		"totalDifferences", stats.Total,
		"addedCount", stats.Added,
		"removedCount", stats.Removed,
		"modifiedCount", stats.Modified,
		"differences", compare.EncodeDifferences(diffs),
		"stats", stats,
		"settings", settings,
		"duration", duration.Milliseconds(),
	))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "validate failed", err)
		return
	}

	if raw, _ := body.Get("data"); raw != nil {
		if text, isText := raw.(string); isText {
			if result := codec.Validate(text); !result.Valid {
				s.writeSuccess(w, r, models.ObjectOf(
					"valid", false,
					"error", result.Error,
					"line", result.Line,
					"column", result.Column,
					"offset", result.Offset,
				))
				return
			}
		}
	}

	v, err := document(body, "data")
	if err != nil {
		s.writeSuccess(w, r, models.ObjectOf("valid", false, "error", err.Error()))
		return
	}
	s.writeSuccess(w, r, models.ObjectOf(
		"valid", true,
		"type", tree.TypeOf(v),
		"size", topLevelSize(v),
	))
}

// topLevelSize counts the direct entries of a container; scalars count as one
// and null as zero
func topLevelSize(v models.JSONValue) int {
	switch node := v.(type) {
	case nil:
		return 0
	case *models.Object:
		return node.Len()
	case *models.Array:
		return node.Len()
	default:
		return 1
	}
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "format failed", err)
		return
	}
	indent := intField(body, "indent", codec.DefaultIndent)
	if indent < 0 {
		indent = codec.DefaultIndent
	}
	indent = codec.ClampIndent(indent)

	v, err := document(body, "data")
	if err != nil {
		s.writeError(w, r, "format failed", err)
		return
	}
	out, err := codec.Encode(v, indent)
	if err != nil {
		s.writeError(w, r, "format failed", err)
		return
	}
	s.writeSuccess(w, r, models.ObjectOf(
		"formatted", string(out),
		"size", utf8.RuneCount(out),
	))
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "compress failed", err)
		return
	}
	v, err := document(body, "data")
	if err != nil {
		s.writeError(w, r, "compress failed", err)
		return
	}
	out, err := codec.Encode(v, 0)
	if err != nil {
		s.writeError(w, r, "compress failed", err)
		return
	}
	s.writeSuccess(w, r, models.ObjectOf(
		"compressed", string(out),
		"size", utf8.RuneCount(out),
	))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "convert failed", err)
		return
	}
	from := stringField(body, "fromFormat", string(convert.JSON))
	to := stringField(body, "toFormat", string(convert.JSON))

	opts := convert.DefaultOptions()
	opts.RootName = stringField(body, "rootName", opts.RootName)
	opts.Indent = codec.ClampIndent(intField(body, "indent", opts.Indent))

	converted, err := convert.Convert(documentText(body, "content"), from, to, opts)
	if err != nil {
		s.writeError(w, r, "convert failed", err)
		return
	}
	logging.FromContext(r.Context()).Debug("converted document", "from", from, "to", to)
	s.writeSuccess(w, r, models.ObjectOf(
		"converted", converted,
		"fromFormat", from,
		"toFormat", to,
	))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, "export failed", err)
		return
	}
	format, err := report.ParseFormat(stringField(body, "format", string(report.FormatJSON)))
	if err != nil {
		s.writeError(w, r, "export failed", err)
		return
	}
	listed, _ := body.Get("differences")
	diffs, err := compare.DecodeDifferences(listed)
	if err != nil {
		s.writeError(w, r, "export failed", err)
		return
	}

	gen := s.reports
	if title := stringField(body, "title", ""); title != "" {
		gen = report.NewGenerator(report.WithClock(s.now), report.WithVersion(s.version), report.WithTitle(title))
	}
	out, err := gen.Generate(format, diffs, documentText(body, "left"), documentText(body, "right"), renderConfigFrom(objectField(body, "config")))
	if err != nil {
		s.writeError(w, r, "export failed", err)
		return
	}

	filename := fmt.Sprintf("json-diff-report-%s%s", s.now().Format("20060102-150405"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	pair, err := samples.Get(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, "sample unavailable", err)
		return
	}
	s.writeSuccess(w, r, models.ObjectOf(
		"type", pair.Name,
		"left", pair.Left,
		"right", pair.Right,
	))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeSuccess(w, r, models.ObjectOf(
		"status", "ok",
		"service", ServiceName,
		"version", s.version,
	))
}
