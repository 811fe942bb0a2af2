package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"walletportal/models"
	"walletportal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
)

//go:embed templates/*.html
var templateFS embed.FS

const SessionCookie = "wallet_session"

type ctxKey int

const sessionKey ctxKey = iota

type Handler struct {
	svc       service.Service
	logger    *slog.Logger
	secret    []byte
	entryPath string
	secure    bool
	pages     *template.Template
	schema    graphql.Schema
}

type Options struct {
	Secret       string
	EntryPath    string
	SecureCookie bool
}

func NewHandler(svc service.Service, logger *slog.Logger, opts Options) Handler {
	pages := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	h := Handler{
		svc:       svc,
		logger:    logger,
		secret:    []byte(opts.Secret),
		entryPath: opts.EntryPath,
		secure:    opts.SecureCookie,
		pages:     pages,
	}
	if h.entryPath == "" {
		h.entryPath = "/"
	}

	schema, err := newSchema(svc)
	if err != nil {
		panic(err)
	}
	h.schema = schema
	return h
}

// Register mounts every route on r.
func (h Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.IndexPage).Methods("GET")
	r.HandleFunc("/receive", h.PageSession(h.ReceivePage)).Methods("GET")
	r.HandleFunc("/send", h.PageSession(h.SendPage)).Methods("GET")
	r.HandleFunc("/send/main", h.PageSession(h.SendMainSubmit)).Methods("POST")
	r.HandleFunc("/send/token", h.PageSession(h.SendTokenSubmit)).Methods("POST")
	r.HandleFunc("/receipt/print", h.PageSession(h.ReceiptPrintPage)).Methods("GET")
	r.HandleFunc("/receipt/pdf", h.PageSession(h.ReceiptPDF)).Methods("GET")
	r.HandleFunc("/receipt/xlsx", h.PageSession(h.ReceiptXLSX)).Methods("GET")

	r.HandleFunc("/api/session", h.CreateSessionHandler).Methods("POST")
	r.HandleFunc("/api/session", h.APISession(h.DeleteSessionHandler)).Methods("DELETE")
	r.HandleFunc("/api/session/preferences", h.APISession(h.PreferencesHandler)).Methods("POST")
	r.HandleFunc("/api/receive", h.APISession(h.ReceiveHandler)).Methods("GET")
	r.HandleFunc("/api/receive/qr.png", h.APISession(h.ReceiveQRHandler)).Methods("GET")
	r.HandleFunc("/api/send/main", h.APISession(h.SendMainHandler)).Methods("POST")
	r.HandleFunc("/api/send/token", h.APISession(h.SendTokenHandler)).Methods("POST")
	r.HandleFunc("/api/receipt", h.APISession(h.DismissReceiptHandler)).Methods("DELETE")
	r.HandleFunc("/graphql", h.APISession(h.GraphQLHandler)).Methods("POST")
}

// PageSession redirects to the entry page unless the request carries a live session.
func (h Handler) PageSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.loadSession(r)
		if err != nil {
			http.Redirect(w, r, h.entryPath, http.StatusFound)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

// APISession is PageSession for JSON endpoints: it answers 401 instead of redirecting.
func (h Handler) APISession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.loadSession(r)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "session required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

func (h Handler) loadSession(r *http.Request) (models.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return models.Session{}, models.ErrSessionNotFound
	}
	sid, err := h.parseSessionToken(cookie.Value)
	if err != nil {
		h.logger.Debug("Rejected session cookie", "error", err)
		return models.Session{}, models.ErrSessionNotFound
	}
	sess, err := h.svc.Session(r.Context(), sid)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			h.logger.Error("Failed to load session", "error", err)
		}
		return models.Session{}, err
	}
	return sess, nil
}

func sessionFrom(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(models.Session)
	return sess, ok
}

func (h Handler) issueSessionToken(sid string, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sid": sid,
			"exp": expires.Unix(),
		},
	)
	return token.SignedString(h.secret)
}

func (h Handler) parseSessionToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid session claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("session id missing")
	}
	return sid, nil
}

func (h Handler) setSessionCookie(w http.ResponseWriter, sess models.Session) error {
	token, err := h.issueSessionToken(sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type ErrorResponse struct {
	Errors string `json:"errors"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Errors: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
