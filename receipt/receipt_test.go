package receipt_test

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"walletportal/models"
	"walletportal/receipt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

var at = time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)

func sampleRequest(note string) models.TransferRequest {
	return models.TransferRequest{
		RecipientAddress: "R1",
		Amount:           decimal.NewFromInt(25),
		Note:             note,
	}
}

func TestNew(t *testing.T) {
	r := receipt.New("Alice", sampleRequest("rent"), models.TokenMain, "tx-42", at)
	require.Equal(t, receipt.TypeSent, r.Type)
	require.Equal(t, "tx-42", r.TxID)
	require.Equal(t, "Completed", r.Status)
	require.Equal(t, "Alice", r.Sender)
	require.Equal(t, "R1", r.Recipient)
	require.Equal(t, "25.00 MAIN", receipt.FormatAmount(r))
	require.Equal(t, "03/01/2025 2:05:09 PM", receipt.FormatDate(r))
}

func TestNew_FallbackTxID(t *testing.T) {
	r := receipt.New("Alice", sampleRequest(""), models.TokenUSDT, "", at)
	require.Regexp(t, regexp.MustCompile(`^tx_[0-9a-f]{13}$`), r.TxID)
	require.NotEqual(t, r.TxID, receipt.FallbackTxID())
}

func TestFallbackTxID_NoFixedNibble(t *testing.T) {
	first := map[byte]bool{}
	last := map[byte]bool{}
	for i := 0; i < 64; i++ {
		id := receipt.FallbackTxID()
		first[id[len("tx_")]] = true
		last[id[len(id)-1]] = true
	}
	require.Greater(t, len(first), 1)
	require.Greater(t, len(last), 1)
}

func TestRows(t *testing.T) {
	withNote := receipt.Rows(receipt.New("Alice", sampleRequest("rent"), models.TokenTRX, "tx", at))
	withoutNote := receipt.Rows(receipt.New("Alice", sampleRequest(""), models.TokenTRX, "tx", at))

	require.Len(t, withNote, 7)
	require.Len(t, withoutNote, 6)
	require.Equal(t, "Note", withNote[4].Label)
	require.Equal(t, receipt.Row{Label: "Status", Value: "Completed"}, withoutNote[len(withoutNote)-1])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := receipt.WritePDF(&buf, receipt.New("Alice", sampleRequest("rent"), models.TokenUSDC, "tx-1", at))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestStore(t *testing.T) {
	s := receipt.NewStore()
	_, ok := s.Get("sid")
	require.False(t, ok)

	r := receipt.New("Alice", sampleRequest(""), models.TokenMain, "tx-9", at)
	s.Put("sid", r, time.Time{})
	got, ok := s.Get("sid")
	require.True(t, ok)
	require.Equal(t, "tx-9", got.TxID)

	s.Discard("sid")
	_, ok = s.Get("sid")
	require.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	r := receipt.New("Alice", sampleRequest(""), models.TokenMain, "tx-9", at)

	t.Run("Expired session hides its receipt", func(t *testing.T) {
		s := receipt.NewStore()
		s.Put("sid", r, time.Now().Add(-time.Minute))
		_, ok := s.Get("sid")
		require.False(t, ok)
		require.Equal(t, 0, s.Sweep())
	})

	t.Run("Put sweeps other expired sessions", func(t *testing.T) {
		s := receipt.NewStore()
		s.Put("old", r, time.Now().Add(-time.Minute))
		s.Put("live", r, time.Now().Add(time.Hour))

		require.Equal(t, 0, s.Sweep())
		_, ok := s.Get("live")
		require.True(t, ok)
	})

	t.Run("Sweep counts expired entries", func(t *testing.T) {
		s := receipt.NewStore()
		s.Put("a", r, time.Now().Add(50*time.Millisecond))
		s.Put("b", r, time.Now().Add(50*time.Millisecond))
		s.Put("c", r, time.Time{})

		time.Sleep(100 * time.Millisecond)
		require.Equal(t, 2, s.Sweep())
		_, ok := s.Get("c")
		require.True(t, ok)
	})
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := receipt.WriteXLSX(&buf, receipt.New("Alice", sampleRequest("rent"), models.TokenUSDT, "tx-7", at))
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	got := map[string]string{}
	for _, row := range file.Sheets[0].Rows {
		require.Len(t, row.Cells, 2)
		got[row.Cells[0].Value] = row.Cells[1].Value
	}
	require.Equal(t, "25.00 USDT", got["Amount"])
	require.Equal(t, "tx-7", got["Transaction ID"])
	require.Equal(t, "rent", got["Note"])
	require.Equal(t, "Completed", got["Status"])
}
