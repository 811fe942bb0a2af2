package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"walletportal/models"
	"walletportal/service"
)

type CreateSessionRequest struct {
	User  *models.UserProfile `json:"user"`
	Token string              `json:"token"`
}

type PreferencesRequest struct {
	DarkMode bool `json:"darkMode"`
}

// SendRequest accepts amount as a JSON number or string.
type SendRequest struct {
	RecipientAddress string      `json:"recipientAddress"`
	Amount           interface{} `json:"amount"`
	Note             string      `json:"note"`
	TokenType        string      `json:"tokenType"`
}

type SendResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Receipt *models.Receipt     `json:"receipt,omitempty"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

func (h Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	sess, err := h.svc.StartSession(r.Context(), req.User, req.Token)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, http.StatusBadRequest, ve.Msg)
			return
		}
		h.logger.Error("Failed to start session", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	if err := h.setSessionCookie(w, sess); err != nil {
		h.logger.Error("Failed to sign session cookie", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := h.svc.EndSession(r.Context(), sess.ID); err != nil {
		h.logger.Error("Failed to end session", "error", err)
	}
	h.clearSessionCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) PreferencesHandler(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	var req PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.svc.SetDarkMode(r.Context(), sess.ID, req.DarkMode); err != nil {
		h.logger.Error("Failed to save preferences", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) ReceiveHandler(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	respondWithJSON(w, http.StatusOK, h.svc.Receive(sess, r.URL.Query().Get("token")))
}

func (h Handler) ReceiveQRHandler(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	png, err := h.svc.ReceiveQR(sess, r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Error("Error generating QR code", "error", err)
		respondWithError(w, http.StatusInternalServerError, service.MsgQRFailed)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (h Handler) SendMainHandler(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.svc.SendMain)
}

func (h Handler) SendTokenHandler(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.svc.SendToken)
}

func (h Handler) DismissReceiptHandler(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	h.svc.DismissReceipt(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

type sendFunc func(ctx context.Context, sess models.Session, form service.SendForm) (service.SendResult, error)

func (h Handler) send(w http.ResponseWriter, r *http.Request, fn sendFunc) {
	sess, _ := sessionFrom(r.Context())
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	form := service.SendForm{
		RecipientAddress: req.RecipientAddress,
		Amount:           amountString(req.Amount),
		Note:             req.Note,
		TokenType:        req.TokenType,
	}

	res, err := fn(r.Context(), sess, form)
	if err != nil {
		respondWithJSON(w, statusFor(err), SendResponse{Success: false, Error: service.UserMessage(err)})
		return
	}
	respondWithJSON(w, http.StatusOK, SendResponse{
		Success: true,
		Receipt: &res.Receipt,
		Profile: &res.Profile,
	})
}

func statusFor(err error) int {
	var ve *service.ValidationError
	var re *service.RejectedError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &re):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrTransferInFlight):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func amountString(v interface{}) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	default:
		return ""
	}
}
