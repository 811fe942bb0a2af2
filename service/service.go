package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"walletportal/models"
	"walletportal/receipt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=./mocks/mock_service.go -package=mocks walletportal/service Repository,TransferClient,QREncoder

type Repository interface {
	CreateSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	DebitBalance(ctx context.Context, id string, token models.TokenType, amount decimal.Decimal) (models.UserProfile, error)
	UpdateDarkMode(ctx context.Context, id string, enabled bool) error
	DeleteSession(ctx context.Context, id string) error
}

type TransferClient interface {
	SendMain(ctx context.Context, authToken string, req models.TransferRequest) (models.TransferResponse, error)
	SendToken(ctx context.Context, authToken string, req models.TransferRequest) (models.TransferResponse, error)
}

type QREncoder interface {
	Encode(content string) ([]byte, error)
	DataURI(content string) (string, error)
}

const (
	MsgAmountNotPositive = "Amount must be greater than 0"
	MsgRecipientRequired = "Recipient address is required"
	MsgTransferFailed    = "An error occurred. Please try again."
	MsgRejectedFallback  = "Failed to send funds"
	MsgInFlight          = "A transfer is already in progress"
	MsgAddressMissing    = "Address not available"
	MsgQRFailed          = "Error generating QR code"
)

var (
	ErrTransferInFlight = errors.New("transfer already in progress")
	ErrTransferFailed   = errors.New("transfer failed")
)

// ValidationError is a local input problem; its message is shown as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RejectedError is a transfer the API answered with success=false.
type RejectedError struct {
	Msg string
}

func (e *RejectedError) Error() string { return e.Msg }

// UserMessage maps an error returned by Service to the text shown next to a form.
func UserMessage(err error) string {
	var ve *ValidationError
	var re *RejectedError
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.As(err, &re):
		return re.Msg
	case errors.Is(err, ErrTransferInFlight):
		return MsgInFlight
	default:
		return MsgTransferFailed
	}
}

type Service struct {
	repo       Repository
	transfers  TransferClient
	qr         QREncoder
	receipts   *receipt.Store
	logger     *slog.Logger
	sessionTTL time.Duration
	inFlight   *sync.Map
	now        func() time.Time
}

func NewService(
	repo Repository,
	transfers TransferClient,
	qr QREncoder,
	receipts *receipt.Store,
	logger *slog.Logger,
	sessionTTL time.Duration,
) Service {
	return Service{
		repo:       repo,
		transfers:  transfers,
		qr:         qr,
		receipts:   receipts,
		logger:     logger,
		sessionTTL: sessionTTL,
		inFlight:   &sync.Map{},
		now:        time.Now,
	}
}

// WithClock returns a copy of s that reads time from now.
func (s Service) WithClock(now func() time.Time) Service {
	s.now = now
	return s
}

func (s Service) StartSession(
	ctx context.Context,
	user *models.UserProfile,
	authToken string,
) (models.Session, error) {
	if user == nil {
		return models.Session{}, &ValidationError{Msg: "user is required"}
	}
	if strings.TrimSpace(authToken) == "" {
		return models.Session{}, &ValidationError{Msg: "token is required"}
	}
	now := s.now()
	sess := models.Session{
		ID:        uuid.NewString(),
		User:      *user,
		AuthToken: authToken,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return models.Session{}, err
	}
	s.logger.Info("Session started", slog.String("session", sess.ID), slog.String("user", user.Name))
	return sess, nil
}

// Session loads a usable session. A session without an auth token counts as missing.
func (s Service) Session(ctx context.Context, id string) (models.Session, error) {
	if id == "" {
		return models.Session{}, models.ErrSessionNotFound
	}
	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			s.receipts.Discard(id)
		}
		return models.Session{}, err
	}
	if sess.AuthToken == "" {
		return models.Session{}, models.ErrSessionNotFound
	}
	return sess, nil
}

func (s Service) EndSession(ctx context.Context, id string) error {
	s.receipts.Discard(id)
	return s.repo.DeleteSession(ctx, id)
}

func (s Service) SetDarkMode(ctx context.Context, id string, enabled bool) error {
	return s.repo.UpdateDarkMode(ctx, id, enabled)
}

type ReceiveView struct {
	RequestedToken string `json:"requestedToken"`
	Token          string `json:"token"`
	Address        string `json:"address"`
	AddressText    string `json:"addressText"`
	QRPayload      string `json:"qrPayload"`
	QRImage        string `json:"-"`
	QRError        string `json:"qrError,omitempty"`
	ShareTitle     string `json:"shareTitle"`
	ShareText      string `json:"shareText"`
}

// Receive resolves the address for the requested token and renders its QR code.
// A QR failure is reported in the view, never returned.
func (s Service) Receive(sess models.Session, requested string) ReceiveView {
	v := resolveReceive(sess.User, requested)

	img, err := s.qr.DataURI(v.QRPayload)
	if err != nil {
		s.logger.Error("Error generating QR code", "error", err, slog.String("session", sess.ID))
		v.QRError = MsgQRFailed
		return v
	}
	v.QRImage = img
	return v
}

// ReceiveQR returns the PNG for the receive QR code.
func (s Service) ReceiveQR(sess models.Session, requested string) ([]byte, error) {
	v := resolveReceive(sess.User, requested)
	return s.qr.Encode(v.QRPayload)
}

func resolveReceive(user models.UserProfile, requested string) ReceiveView {
	if requested == "" {
		requested = models.DefaultToken.String()
	}
	token := models.ParseTokenType(requested)
	address := token.Address(user)

	v := ReceiveView{
		RequestedToken: requested,
		Token:          token.String(),
		Address:        address,
		AddressText:    address,
		QRPayload:      models.QRPayload(requested, address),
		ShareTitle:     "My " + requested + " Wallet Address",
		ShareText:      "Here's my " + requested + " wallet address: " + address,
	}
	if address == "" {
		v.AddressText = MsgAddressMissing
	}
	return v
}

type SendForm struct {
	RecipientAddress string `json:"recipientAddress"`
	Amount           string `json:"amount"`
	Note             string `json:"note"`
	TokenType        string `json:"tokenType,omitempty"`
}

type SendResult struct {
	Receipt models.Receipt     `json:"receipt"`
	Profile models.UserProfile `json:"profile"`
}

const (
	formMain  = "main"
	formToken = "token"
)

// SendMain validates and submits a main-wallet transfer.
func (s Service) SendMain(ctx context.Context, sess models.Session, form SendForm) (SendResult, error) {
	req, err := parseForm(form)
	if err != nil {
		return SendResult{}, err
	}
	return s.submit(ctx, sess, formMain, models.TokenMain, req, s.transfers.SendMain)
}

// SendToken validates the amount against the cached token balance before submitting.
// MAIN has no balance in the token form, so it is always rejected here.
func (s Service) SendToken(ctx context.Context, sess models.Session, form SendForm) (SendResult, error) {
	req, err := parseForm(form)
	if err != nil {
		return SendResult{}, err
	}
	token := models.ParseTokenType(form.TokenType)
	req.TokenType = token

	balance := decimal.Zero
	if token != models.TokenMain {
		balance = token.Balance(sess.User)
	}
	if req.Amount.GreaterThan(balance) {
		return SendResult{}, &ValidationError{
			Msg: "Insufficient " + token.String() + " balance. You have " + balance.String() + " " + token.String() + ".",
		}
	}
	return s.submit(ctx, sess, formToken, token, req, s.transfers.SendToken)
}

type sendFunc func(ctx context.Context, authToken string, req models.TransferRequest) (models.TransferResponse, error)

func (s Service) submit(
	ctx context.Context,
	sess models.Session,
	form string,
	token models.TokenType,
	req models.TransferRequest,
	send sendFunc,
) (SendResult, error) {
	key := sess.ID + ":" + form
	if _, busy := s.inFlight.LoadOrStore(key, struct{}{}); busy {
		return SendResult{}, ErrTransferInFlight
	}
	defer s.inFlight.Delete(key)

	resp, err := send(ctx, sess.AuthToken, req)
	if err != nil {
		s.logger.Error("Send funds error", "error", err,
			slog.String("session", sess.ID),
			slog.String("token", token.String()),
		)
		return SendResult{}, errors.Join(ErrTransferFailed, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgRejectedFallback
		}
		s.logger.Info("Transfer rejected", slog.String("session", sess.ID), slog.String("message", msg))
		return SendResult{}, &RejectedError{Msg: msg}
	}

	r := receipt.New(sess.User.Name, req, token, resp.TransactionID, s.now())
	s.receipts.Put(sess.ID, r, sess.ExpiresAt)

	// The stored profile may already carry a debit from the other form.
	profile, err := s.repo.DebitBalance(ctx, sess.ID, token, req.Amount)
	if err != nil {
		s.logger.Error("Failed to persist profile", "error", err, slog.String("session", sess.ID))
		profile = token.Debit(sess.User, req.Amount)
	}

	s.logger.Info("Transfer completed",
		slog.String("session", sess.ID),
		slog.String("token", token.String()),
		slog.String("amount", req.Amount.String()),
		slog.String("tx", r.TxID),
	)
	return SendResult{Receipt: r, Profile: profile}, nil
}

func (s Service) Receipt(sessionID string) (models.Receipt, bool) {
	return s.receipts.Get(sessionID)
}

func (s Service) DismissReceipt(sessionID string) {
	s.receipts.Discard(sessionID)
}

func parseForm(form SendForm) (models.TransferRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(form.Amount))
	if err != nil || !amount.IsPositive() {
		return models.TransferRequest{}, &ValidationError{Msg: MsgAmountNotPositive}
	}
	recipient := strings.TrimSpace(form.RecipientAddress)
	if recipient == "" {
		return models.TransferRequest{}, &ValidationError{Msg: MsgRecipientRequired}
	}
	return models.TransferRequest{
		RecipientAddress: recipient,
		Amount:           amount,
		Note:             form.Note,
	}, nil
}
