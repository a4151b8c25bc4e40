// Package response writes the JSON envelopes every endpoint answers with:
//
//	{"data": ..., "meta": ...}                                  success
//	{"error": {"code": "...", "message": "...", "details": {}}} failure
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/apierror"
)

// Body is the success envelope.
type Body struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 {"data": data}.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Body{Data: data})
}

// Created sends a 201 {"data": data}.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, Body{Data: data})
}

// Paginated sends a 200 {"data": data, "meta": meta}.
func Paginated(w http.ResponseWriter, data, meta interface{}) {
	JSON(w, http.StatusOK, Body{Data: data, Meta: meta})
}

// NoContent sends a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends the error envelope with the status implied by err's kind.
func Error(w http.ResponseWriter, err *apierror.Error) {
	JSON(w, err.Status(), err.Envelope())
}

// Status sends an error envelope for statuses outside the apierror kinds
// (429, 503, ...).
func Status(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, apierror.Envelope{Error: apierror.Body{Code: code, Message: message}})
}
