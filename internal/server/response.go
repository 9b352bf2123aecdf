package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/logging"
	"github.com/mcncl/jsondelta/internal/models"
)

const successMessage = "success"

func (s *Server) envelope(success bool, message string, data models.JSONValue) *models.Object {
	return models.ObjectOf(
		"success", success,
		"message", message,
		"data", data,
		"timestamp", json.Number(strconv.FormatInt(s.now().UnixMilli(), 10)),
	)
}

func (s *Server) writeSuccess(w http.ResponseWriter, r *http.Request, data models.JSONValue) {
	s.writeEnvelope(w, r, http.StatusOK, s.envelope(true, successMessage, data))
}

// writeError answers with a 400 envelope; every failure the API reports is
// attributed to the request
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if err != nil {
		message = message + ": " + err.Error()
	}
	logging.FromContext(r.Context()).Warn("request failed", "path", r.URL.Path, "err", message)
	s.writeEnvelope(w, r, http.StatusBadRequest, s.envelope(false, message, nil))
}

func (s *Server) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, body *models.Object) {
	out, err := codec.Encode(body, 0)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "err", err)
		status = http.StatusInternalServerError
		out, _ = codec.Encode(s.envelope(false, "failed to encode response", nil), 0)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
