package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TokenType string

const (
	TokenMain TokenType = "MAIN"
	TokenTRX  TokenType = "TRX"
	TokenUSDT TokenType = "USDT"
	TokenUSDC TokenType = "USDC"
)

// DefaultToken is used whenever a token is absent or unrecognized.
const DefaultToken = TokenTRX

type UserProfile struct {
	Name              string          `json:"name"`
	Balance           decimal.Decimal `json:"balance"`
	TRXBalance        decimal.Decimal `json:"trxBalance"`
	USDTBalance       decimal.Decimal `json:"usdtBalance"`
	USDCBalance       decimal.Decimal `json:"usdcBalance"`
	MainWalletAddress string          `json:"mainWalletAddress"`
	TRXWalletAddress  string          `json:"trxWalletAddress"`
	USDTWalletAddress string          `json:"usdtWalletAddress"`
	USDCWalletAddress string          `json:"usdcWalletAddress"`
}

type Session struct {
	ID        string
	User      UserProfile
	AuthToken string
	DarkMode  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type TransferRequest struct {
	RecipientAddress string
	Amount           decimal.Decimal
	Note             string
	TokenType        TokenType
}

type TransferResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message,omitempty"`
}

type Receipt struct {
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Token     TokenType       `json:"token"`
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Date      time.Time       `json:"date"`
	TxID      string          `json:"txId"`
	Note      string          `json:"note,omitempty"`
	Status    string          `json:"status"`
}

type tokenFields struct {
	address func(*UserProfile) *string
	balance func(*UserProfile) *decimal.Decimal
}

// tokenTable is the only place a token is bound to profile fields.
var tokenTable = map[TokenType]tokenFields{
	TokenMain: {
		address: func(u *UserProfile) *string { return &u.MainWalletAddress },
		balance: func(u *UserProfile) *decimal.Decimal { return &u.Balance },
	},
	TokenTRX: {
		address: func(u *UserProfile) *string { return &u.TRXWalletAddress },
		balance: func(u *UserProfile) *decimal.Decimal { return &u.TRXBalance },
	},
	TokenUSDT: {
		address: func(u *UserProfile) *string { return &u.USDTWalletAddress },
		balance: func(u *UserProfile) *decimal.Decimal { return &u.USDTBalance },
	},
	TokenUSDC: {
		address: func(u *UserProfile) *string { return &u.USDCWalletAddress },
		balance: func(u *UserProfile) *decimal.Decimal { return &u.USDCBalance },
	},
}

// AllTokens lists the tokens in display order.
func AllTokens() []TokenType {
	return []TokenType{TokenMain, TokenTRX, TokenUSDT, TokenUSDC}
}

// ParseTokenType is exact-match; anything else yields DefaultToken.
func ParseTokenType(s string) TokenType {
	t := TokenType(s)
	if t.Valid() {
		return t
	}
	return DefaultToken
}

func (t TokenType) Valid() bool {
	_, ok := tokenTable[t]
	return ok
}

func (t TokenType) String() string {
	return string(t)
}

func (t TokenType) fields() tokenFields {
	if f, ok := tokenTable[t]; ok {
		return f
	}
	return tokenTable[DefaultToken]
}

// Address returns the wallet address of u for the token.
func (t TokenType) Address(u UserProfile) string {
	return *t.fields().address(&u)
}

func (t TokenType) Balance(u UserProfile) decimal.Decimal {
	return *t.fields().balance(&u)
}

// Debit returns a copy of u with amount subtracted from the token's balance.
// The result may go negative.
func (t TokenType) Debit(u UserProfile, amount decimal.Decimal) UserProfile {
	b := t.fields().balance(&u)
	*b = b.Sub(amount)
	return u
}

// QRPayload is the string encoded into the receive QR code.
func QRPayload(token, address string) string {
	return strings.ToLower(token) + ":" + address
}

var ErrSessionNotFound = errors.New("session not found")
