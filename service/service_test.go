package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"walletportal/models"
	"walletportal/receipt"
	"walletportal/service"
	"walletportal/service/mocks"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)

func testSession() models.Session {
	return models.Session{
		ID:        "sid",
		AuthToken: "tok",
		User: models.UserProfile{
			Name:              "Alice",
			Balance:           decimal.NewFromInt(100),
			TRXBalance:        decimal.NewFromInt(40),
			USDTBalance:       decimal.NewFromInt(10),
			USDCBalance:       decimal.NewFromInt(3),
			MainWalletAddress: "M1",
			TRXWalletAddress:  "T123",
			USDTWalletAddress: "U1",
			USDCWalletAddress: "C1",
		},
	}
}

type deps struct {
	repo      *mocks.MockRepository
	transfers *mocks.MockTransferClient
	qr        *mocks.MockQREncoder
	receipts  *receipt.Store
}

// debitStored answers DebitBalance as the store would, starting from stored.
func debitStored(stored models.UserProfile) func(context.Context, string, models.TokenType, decimal.Decimal) (models.UserProfile, error) {
	return func(_ context.Context, _ string, token models.TokenType, amount decimal.Decimal) (models.UserProfile, error) {
		return token.Debit(stored, amount), nil
	}
}

func newService(t *testing.T) (service.Service, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		repo:      mocks.NewMockRepository(ctrl),
		transfers: mocks.NewMockTransferClient(ctrl),
		qr:        mocks.NewMockQREncoder(ctrl),
		receipts:  receipt.NewStore(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(d.repo, d.transfers, d.qr, d.receipts, logger, time.Hour).
		WithClock(func() time.Time { return fixedNow })
	return svc, d
}

func TestService_Receive(t *testing.T) {
	type args struct {
		token string
	}
	tests := []struct {
		name        string
		args        args
		wantAddress string
		wantPayload string
		wantTitle   string
	}{
		{name: "Default token", args: args{token: ""}, wantAddress: "T123", wantPayload: "trx:T123", wantTitle: "My TRX Wallet Address"},
		{name: "Main", args: args{token: "MAIN"}, wantAddress: "M1", wantPayload: "main:M1", wantTitle: "My MAIN Wallet Address"},
		{name: "TRX", args: args{token: "TRX"}, wantAddress: "T123", wantPayload: "trx:T123", wantTitle: "My TRX Wallet Address"},
		{name: "USDT", args: args{token: "USDT"}, wantAddress: "U1", wantPayload: "usdt:U1", wantTitle: "My USDT Wallet Address"},
		{name: "USDC", args: args{token: "USDC"}, wantAddress: "C1", wantPayload: "usdc:C1", wantTitle: "My USDC Wallet Address"},
		{name: "Unknown falls back to TRX address", args: args{token: "DOGE"}, wantAddress: "T123", wantPayload: "doge:T123", wantTitle: "My DOGE Wallet Address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			d.qr.EXPECT().DataURI(tt.wantPayload).Return("data:image/png;base64,AAAA", nil)

			v := svc.Receive(testSession(), tt.args.token)
			require.Equal(t, tt.wantAddress, v.Address)
			require.Equal(t, tt.wantAddress, v.AddressText)
			require.Equal(t, tt.wantPayload, v.QRPayload)
			require.Equal(t, tt.wantTitle, v.ShareTitle)
			require.Contains(t, v.ShareText, tt.wantAddress)
			require.Equal(t, "data:image/png;base64,AAAA", v.QRImage)
			require.Empty(t, v.QRError)
		})
	}
}

func TestService_Receive_QRFailure(t *testing.T) {
	svc, d := newService(t)
	d.qr.EXPECT().DataURI("trx:T123").Return("", errors.New("data too long"))

	v := svc.Receive(testSession(), "TRX")
	require.Equal(t, "T123", v.Address)
	require.Empty(t, v.QRImage)
	require.Equal(t, service.MsgQRFailed, v.QRError)
}

func TestService_Receive_MissingAddress(t *testing.T) {
	svc, d := newService(t)
	sess := testSession()
	sess.User.USDCWalletAddress = ""
	d.qr.EXPECT().DataURI("usdc:").Return("data:x", nil)

	v := svc.Receive(sess, "USDC")
	require.Empty(t, v.Address)
	require.Equal(t, service.MsgAddressMissing, v.AddressText)
}

func TestService_SendMain_Validation(t *testing.T) {
	tests := []struct {
		name    string
		form    service.SendForm
		wantMsg string
	}{
		{name: "Zero amount", form: service.SendForm{RecipientAddress: "R", Amount: "0"}, wantMsg: service.MsgAmountNotPositive},
		{name: "Negative amount", form: service.SendForm{RecipientAddress: "R", Amount: "-5"}, wantMsg: service.MsgAmountNotPositive},
		{name: "Non-numeric amount", form: service.SendForm{RecipientAddress: "R", Amount: "abc"}, wantMsg: service.MsgAmountNotPositive},
		{name: "Empty amount", form: service.SendForm{RecipientAddress: "R"}, wantMsg: service.MsgAmountNotPositive},
		{name: "Missing recipient", form: service.SendForm{Amount: "1"}, wantMsg: service.MsgRecipientRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any call to the transfer client or repository fails the test.
			svc, _ := newService(t)

			_, err := svc.SendMain(context.Background(), testSession(), tt.form)
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantMsg, service.UserMessage(err))
		})
	}
}

func TestService_SendMain(t *testing.T) {
	type fields struct {
		prepare func(d deps)
	}
	tests := []struct {
		name        string
		fields      fields
		form        service.SendForm
		wantErrMsg  string
		wantBalance decimal.Decimal
		wantTxID    string
	}{
		{
			name: "Success debits main balance",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendMain(gomock.Any(), "tok", gomock.Any()).
						DoAndReturn(func(_ context.Context, _ string, req models.TransferRequest) (models.TransferResponse, error) {
							if req.RecipientAddress != "R1" || !req.Amount.Equal(decimal.NewFromInt(25)) || req.Note != "rent" {
								return models.TransferResponse{}, errors.New("unexpected request")
							}
							return models.TransferResponse{Success: true, TransactionID: "tx-42"}, nil
						})
					d.repo.EXPECT().
						DebitBalance(gomock.Any(), "sid", models.TokenMain, gomock.Any()).
						DoAndReturn(debitStored(testSession().User))
				},
			},
			form:        service.SendForm{RecipientAddress: "R1", Amount: "25", Note: "rent"},
			wantBalance: decimal.NewFromInt(75),
			wantTxID:    "tx-42",
		},
		{
			name: "Rejected with server message",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendMain(gomock.Any(), "tok", gomock.Any()).
						Return(models.TransferResponse{Success: false, Message: "cooldown"}, nil)
				},
			},
			form:       service.SendForm{RecipientAddress: "R1", Amount: "25"},
			wantErrMsg: "cooldown",
		},
		{
			name: "Rejected without message",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendMain(gomock.Any(), "tok", gomock.Any()).
						Return(models.TransferResponse{Success: false}, nil)
				},
			},
			form:       service.SendForm{RecipientAddress: "R1", Amount: "25"},
			wantErrMsg: service.MsgRejectedFallback,
		},
		{
			name: "Transport failure",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendMain(gomock.Any(), "tok", gomock.Any()).
						Return(models.TransferResponse{}, errors.New("post: unexpected status: 502"))
				},
			},
			form:       service.SendForm{RecipientAddress: "R1", Amount: "25"},
			wantErrMsg: service.MsgTransferFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.fields.prepare(d)

			res, err := svc.SendMain(context.Background(), testSession(), tt.form)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				require.Equal(t, tt.wantErrMsg, service.UserMessage(err))
				_, held := svc.Receipt("sid")
				require.False(t, held)
				return
			}
			require.NoError(t, err)
			require.True(t, res.Profile.Balance.Equal(tt.wantBalance))
			require.Equal(t, tt.wantTxID, res.Receipt.TxID)
			require.Equal(t, "Completed", res.Receipt.Status)
			require.Equal(t, models.TokenMain, res.Receipt.Token)
			require.Equal(t, fixedNow, res.Receipt.Date)
			require.Equal(t, "Alice", res.Receipt.Sender)

			held, ok := svc.Receipt("sid")
			require.True(t, ok)
			require.Equal(t, res.Receipt, held)
		})
	}
}

func TestService_SendMain_TransportFailureWrapsCause(t *testing.T) {
	svc, d := newService(t)
	cause := errors.New("dial tcp: refused")
	d.transfers.EXPECT().SendMain(gomock.Any(), "tok", gomock.Any()).Return(models.TransferResponse{}, cause)

	_, err := svc.SendMain(context.Background(), testSession(), service.SendForm{RecipientAddress: "R", Amount: "1"})
	require.ErrorIs(t, err, service.ErrTransferFailed)
	require.ErrorIs(t, err, cause)
}

func TestService_SendMain_PersistFailureStillSucceeds(t *testing.T) {
	svc, d := newService(t)
	d.transfers.EXPECT().SendMain(gomock.Any(), "tok", gomock.Any()).
		Return(models.TransferResponse{Success: true}, nil)
	d.repo.EXPECT().DebitBalance(gomock.Any(), "sid", models.TokenMain, gomock.Any()).
		Return(models.UserProfile{}, errors.New("db down"))

	res, err := svc.SendMain(context.Background(), testSession(), service.SendForm{RecipientAddress: "R", Amount: "1"})
	require.NoError(t, err)
	require.Regexp(t, `^tx_[0-9a-f]{13}$`, res.Receipt.TxID)
	require.True(t, res.Profile.Balance.Equal(decimal.NewFromInt(99)))
}

func TestService_SendMain_KeepsDebitFromOtherForm(t *testing.T) {
	svc, d := newService(t)

	// A token send on the same session already debited TRX in the store.
	stored := testSession().User
	stored.TRXBalance = decimal.NewFromInt(30)

	d.transfers.EXPECT().SendMain(gomock.Any(), "tok", gomock.Any()).
		Return(models.TransferResponse{Success: true}, nil)
	d.repo.EXPECT().DebitBalance(gomock.Any(), "sid", models.TokenMain, gomock.Any()).
		DoAndReturn(debitStored(stored))

	res, err := svc.SendMain(context.Background(), testSession(), service.SendForm{RecipientAddress: "R", Amount: "25"})
	require.NoError(t, err)
	require.True(t, res.Profile.Balance.Equal(decimal.NewFromInt(75)))
	require.True(t, res.Profile.TRXBalance.Equal(decimal.NewFromInt(30)))
}

func TestService_SendToken(t *testing.T) {
	type fields struct {
		prepare func(d deps)
	}
	tests := []struct {
		name       string
		fields     fields
		form       service.SendForm
		wantErrMsg string
		check      func(t *testing.T, p models.UserProfile)
	}{
		{
			name:       "Insufficient USDT balance",
			fields:     fields{prepare: func(d deps) {}},
			form:       service.SendForm{RecipientAddress: "R", Amount: "15", TokenType: "USDT"},
			wantErrMsg: "Insufficient USDT balance. You have 10 USDT.",
		},
		{
			name:       "MAIN is not sendable from the token form",
			fields:     fields{prepare: func(d deps) {}},
			form:       service.SendForm{RecipientAddress: "R", Amount: "1", TokenType: "MAIN"},
			wantErrMsg: "Insufficient MAIN balance. You have 0 MAIN.",
		},
		{
			name:       "Non-positive amount checked first",
			fields:     fields{prepare: func(d deps) {}},
			form:       service.SendForm{RecipientAddress: "R", Amount: "-5", TokenType: "USDT"},
			wantErrMsg: service.MsgAmountNotPositive,
		},
		{
			name: "Exact balance is allowed",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendToken(gomock.Any(), "tok", gomock.Any()).
						DoAndReturn(func(_ context.Context, _ string, req models.TransferRequest) (models.TransferResponse, error) {
							if req.TokenType != models.TokenUSDT {
								return models.TransferResponse{}, errors.New("wrong token")
							}
							return models.TransferResponse{Success: true, TransactionID: "tx-1"}, nil
						})
					d.repo.EXPECT().DebitBalance(gomock.Any(), "sid", models.TokenUSDT, gomock.Any()).
						DoAndReturn(debitStored(testSession().User))
				},
			},
			form: service.SendForm{RecipientAddress: "R", Amount: "10", TokenType: "USDT"},
			check: func(t *testing.T, p models.UserProfile) {
				require.True(t, p.USDTBalance.IsZero())
				require.True(t, p.Balance.Equal(decimal.NewFromInt(100)))
			},
		},
		{
			name: "Unknown token is treated as TRX",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendToken(gomock.Any(), "tok", gomock.Any()).
						DoAndReturn(func(_ context.Context, _ string, req models.TransferRequest) (models.TransferResponse, error) {
							if req.TokenType != models.TokenTRX {
								return models.TransferResponse{}, errors.New("wrong token")
							}
							return models.TransferResponse{Success: true}, nil
						})
					d.repo.EXPECT().DebitBalance(gomock.Any(), "sid", models.TokenTRX, gomock.Any()).
						DoAndReturn(debitStored(testSession().User))
				},
			},
			form: service.SendForm{RecipientAddress: "R", Amount: "15.5", TokenType: "XRP"},
			check: func(t *testing.T, p models.UserProfile) {
				require.True(t, p.TRXBalance.Equal(decimal.RequireFromString("24.5")))
			},
		},
		{
			name: "Rejected leaves profile untouched",
			fields: fields{
				prepare: func(d deps) {
					d.transfers.EXPECT().
						SendToken(gomock.Any(), "tok", gomock.Any()).
						Return(models.TransferResponse{Success: false, Message: "cooldown"}, nil)
				},
			},
			form:       service.SendForm{RecipientAddress: "R", Amount: "1", TokenType: "USDC"},
			wantErrMsg: "cooldown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.fields.prepare(d)

			res, err := svc.SendToken(context.Background(), testSession(), tt.form)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				require.Equal(t, tt.wantErrMsg, service.UserMessage(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, res.Profile)
		})
	}
}

func TestService_InFlightGuard(t *testing.T) {
	svc, d := newService(t)
	entered := make(chan struct{})
	release := make(chan struct{})

	d.transfers.EXPECT().
		SendMain(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.TransferRequest) (models.TransferResponse, error) {
			close(entered)
			<-release
			return models.TransferResponse{Success: true, TransactionID: "tx-1"}, nil
		}).
		Times(1)
	d.repo.EXPECT().DebitBalance(gomock.Any(), "sid", models.TokenMain, gomock.Any()).
		DoAndReturn(debitStored(testSession().User))

	form := service.SendForm{RecipientAddress: "R", Amount: "1"}
	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.SendMain(context.Background(), testSession(), form)
	}()

	<-entered
	_, err := svc.SendMain(context.Background(), testSession(), form)
	require.ErrorIs(t, err, service.ErrTransferInFlight)
	require.Equal(t, service.MsgInFlight, service.UserMessage(err))

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	d.transfers.EXPECT().SendMain(gomock.Any(), "tok", gomock.Any()).
		Return(models.TransferResponse{Success: false, Message: "cooldown"}, nil)
	_, err = svc.SendMain(context.Background(), testSession(), form)
	require.Equal(t, "cooldown", service.UserMessage(err))
}

func TestService_StartSession(t *testing.T) {
	t.Run("Creates session", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)

		user := testSession().User
		sess, err := svc.StartSession(context.Background(), &user, "tok")
		require.NoError(t, err)
		require.NotEmpty(t, sess.ID)
		require.Equal(t, "tok", sess.AuthToken)
		require.Equal(t, fixedNow.Add(time.Hour), sess.ExpiresAt)
	})

	t.Run("Rejects empty token", func(t *testing.T) {
		svc, _ := newService(t)
		user := testSession().User
		_, err := svc.StartSession(context.Background(), &user, "  ")
		var ve *service.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Rejects missing user", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.StartSession(context.Background(), nil, "tok")
		require.Error(t, err)
	})
}

func TestService_Session(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		prepare func(d deps)
		wantErr error
	}{
		{name: "Empty id", id: "", prepare: func(d deps) {}, wantErr: models.ErrSessionNotFound},
		{
			name: "Missing row",
			id:   "sid",
			prepare: func(d deps) {
				d.repo.EXPECT().GetSession(gomock.Any(), "sid").Return(models.Session{}, models.ErrSessionNotFound)
			},
			wantErr: models.ErrSessionNotFound,
		},
		{
			name: "Empty auth token",
			id:   "sid",
			prepare: func(d deps) {
				d.repo.EXPECT().GetSession(gomock.Any(), "sid").Return(models.Session{ID: "sid"}, nil)
			},
			wantErr: models.ErrSessionNotFound,
		},
		{
			name: "Valid",
			id:   "sid",
			prepare: func(d deps) {
				d.repo.EXPECT().GetSession(gomock.Any(), "sid").Return(testSession(), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.prepare(d)

			sess, err := svc.Session(context.Background(), tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "tok", sess.AuthToken)
		})
	}
}

func TestService_EndSession_DiscardsReceipt(t *testing.T) {
	svc, d := newService(t)
	d.receipts.Put("sid", models.Receipt{TxID: "tx"}, time.Time{})
	d.repo.EXPECT().DeleteSession(gomock.Any(), "sid").Return(nil)

	require.NoError(t, svc.EndSession(context.Background(), "sid"))
	_, ok := svc.Receipt("sid")
	require.False(t, ok)
}

func TestService_Session_MissingDiscardsReceipt(t *testing.T) {
	svc, d := newService(t)
	d.receipts.Put("sid", models.Receipt{TxID: "tx"}, time.Time{})
	d.repo.EXPECT().GetSession(gomock.Any(), "sid").Return(models.Session{}, models.ErrSessionNotFound)

	_, err := svc.Session(context.Background(), "sid")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
	_, ok := svc.Receipt("sid")
	require.False(t, ok)
}
