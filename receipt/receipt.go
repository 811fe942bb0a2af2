package receipt

import (
	"strings"
	"sync"
	"time"

	"walletportal/models"

	"github.com/google/uuid"
)

const (
	TypeSent        = "sent"
	StatusCompleted = "Completed"

	DateLayout = "01/02/2006 3:04:05 PM"
)

// New builds the receipt for a completed transfer. A missing transaction id
// is replaced by a synthesized one that is only fit for display.
func New(sender string, req models.TransferRequest, token models.TokenType, txID string, at time.Time) models.Receipt {
	if txID == "" {
		txID = FallbackTxID()
	}
	return models.Receipt{
		Type:      TypeSent,
		Amount:    req.Amount,
		Token:     token,
		Sender:    sender,
		Recipient: req.RecipientAddress,
		Date:      at,
		TxID:      txID,
		Note:      req.Note,
		Status:    StatusCompleted,
	}
}

// FallbackTxID takes the random tail of a v4 uuid, past its version and variant nibbles.
func FallbackTxID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "tx_" + id[len(id)-13:]
}

func FormatAmount(r models.Receipt) string {
	return r.Amount.StringFixed(2) + " " + r.Token.String()
}

func FormatDate(r models.Receipt) string {
	return r.Date.Format(DateLayout)
}

// Store holds at most one receipt per session until it is dismissed or the
// session expires. Expired entries are swept on every Put.
type Store struct {
	m   sync.Map
	now func() time.Time
}

type entry struct {
	receipt   models.Receipt
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Put stores r for the session; a zero expiresAt never expires.
func (s *Store) Put(sessionID string, r models.Receipt, expiresAt time.Time) {
	s.Sweep()
	s.m.Store(sessionID, entry{receipt: r, expiresAt: expiresAt})
}

func (s *Store) Get(sessionID string) (models.Receipt, bool) {
	v, ok := s.m.Load(sessionID)
	if !ok {
		return models.Receipt{}, false
	}
	e := v.(entry)
	if e.expired(s.now()) {
		s.m.Delete(sessionID)
		return models.Receipt{}, false
	}
	return e.receipt, true
}

func (s *Store) Discard(sessionID string) {
	s.m.Delete(sessionID)
}

// Sweep drops receipts of expired sessions and reports how many it removed.
func (s *Store) Sweep() int {
	now := s.now()
	removed := 0
	s.m.Range(func(k, v interface{}) bool {
		if v.(entry).expired(now) {
			s.m.Delete(k)
			removed++
		}
		return true
	})
	return removed
}
