package api

import (
	"net/http"

	"github.com/pure-golang/mailto/dispatch"
	"github.com/pure-golang/mailto/logger"
)

const (
	MsgReadFailed   = "Failed to read template"
	MsgUpdateFailed = "Failed to update template"
	MsgUpdated      = "Template updated successfully."
	MsgInvalidJSON  = "Invalid JSON body."
	MsgBodyTooLarge = "Request body too large."
)

type templateResponse struct {
	HTML string `json:"html"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	html, err := h.store.Read(r.Context())
	if err != nil {
		writeError(w, r, err, MsgReadFailed)
		return
	}
	writeJSON(w, r, http.StatusOK, templateResponse{HTML: html})
}

func (h *Handler) PutTemplate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	if err := h.store.Write(r.Context(), body.String("html")); err != nil {
		writeError(w, r, err, MsgUpdateFailed)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: MsgUpdated})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	receipt, err := h.sender.Send(r.Context(), dispatch.Request{
		To:      body.String("to"),
		Subject: body.String("subject"),
		HTML:    body.String("html"),
	})
	if err != nil {
		writeError(w, r, err, dispatch.MsgDeliveryFailed)
		return
	}

	logger.FromContext(r.Context()).Debug("send accepted", "message_id", receipt.MessageID)
	writeJSON(w, r, http.StatusOK, messageResponse{Message: receipt.Message()})
}

func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// Ready reports whether the template can be read.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Read(r.Context()); err != nil {
		logger.FromContextWithErr(r.Context(), err).Warn("readiness check failed")
		http.Error(w, "template storage unavailable", http.StatusServiceUnavailable)
		return
	}
	h.Live(w, r)
}
