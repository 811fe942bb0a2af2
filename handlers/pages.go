package handlers

import (
	"bytes"
	"html/template"
	"io"
	"net/http"

	"walletportal/models"
	"walletportal/receipt"
	"walletportal/service"
)

const (
	mainFormID  = "mainWalletForm"
	tokenFormID = "tokenForm"

	transferConfirmation = "Transfer successful!"

	printDelayMS = 250
)

type tab struct {
	FormID string
	Label  string
	Active bool
}

var sendTabs = []tab{
	{FormID: mainFormID, Label: "Main Wallet"},
	{FormID: tokenFormID, Label: "Token"},
}

type formState struct {
	Recipient string
	Amount    string
	Note      string
	Error     string
}

type tokenOption struct {
	Value    string
	Balance  string
	Selected bool
}

type balances struct {
	Main string
}

type receiptView struct {
	Token  string
	Amount string
	Rows   []receipt.Row
}

type indexPageData struct {
	Title    string
	DarkMode bool
}

type receivePageData struct {
	Title    string
	DarkMode bool
	View     service.ReceiveView
	QRImage  template.URL
}

type sendPageData struct {
	Title        string
	DarkMode     bool
	Tabs         []tab
	ActiveForm   string
	TokenOptions []tokenOption
	Balances     balances
	Main         formState
	Token        formState
	Receipt      *receiptView
	Flash        string
}

type printPageData struct {
	Receipt      receiptView
	PrintDelayMS int
}

func (h Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", indexPageData{Title: "Wallet"})
}

func (h Handler) ReceivePage(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	view := h.svc.Receive(sess, r.URL.Query().Get("token"))

	h.render(w, "receive.html", receivePageData{
		Title:    "Receive " + view.RequestedToken,
		DarkMode: sess.DarkMode,
		View:     view,
		// The data URI comes from the QR encoder, never from request input.
		QRImage: template.URL(view.QRImage),
	})
}

func (h Handler) SendPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	q := r.URL.Query()
	data := newSendPageData(sess, q.Get("tab"), q.Get("token"))
	h.render(w, "send.html", data)
}

func (h Handler) SendMainSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := service.SendForm{
		RecipientAddress: r.PostForm.Get("mainRecipientAddress"),
		Amount:           r.PostForm.Get("mainAmount"),
		Note:             r.PostForm.Get("mainNote"),
	}

	res, err := h.svc.SendMain(r.Context(), sess, form)
	if err != nil {
		data := newSendPageData(sess, mainFormID, "")
		data.Main = formState{
			Recipient: form.RecipientAddress,
			Amount:    form.Amount,
			Note:      form.Note,
			Error:     service.UserMessage(err),
		}
		h.render(w, "send.html", data)
		return
	}

	sess.User = res.Profile
	data := newSendPageData(sess, mainFormID, "")
	data.Receipt = newReceiptView(res.Receipt)
	data.Flash = transferConfirmation
	h.render(w, "send.html", data)
}

func (h Handler) SendTokenSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := service.SendForm{
		RecipientAddress: r.PostForm.Get("recipientAddress"),
		Amount:           r.PostForm.Get("tokenAmount"),
		Note:             r.PostForm.Get("tokenNote"),
		TokenType:        r.PostForm.Get("tokenType"),
	}

	res, err := h.svc.SendToken(r.Context(), sess, form)
	if err != nil {
		data := newSendPageData(sess, tokenFormID, form.TokenType)
		data.Token = formState{
			Recipient: form.RecipientAddress,
			Amount:    form.Amount,
			Note:      form.Note,
			Error:     service.UserMessage(err),
		}
		h.render(w, "send.html", data)
		return
	}

	sess.User = res.Profile
	data := newSendPageData(sess, tokenFormID, form.TokenType)
	data.Receipt = newReceiptView(res.Receipt)
	data.Flash = transferConfirmation
	h.render(w, "send.html", data)
}

func (h Handler) ReceiptPrintPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	rc, ok := h.svc.Receipt(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, "print.html", printPageData{
		Receipt:      *newReceiptView(rc),
		PrintDelayMS: printDelayMS,
	})
}

func (h Handler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	h.downloadReceipt(w, r, "application/pdf", "pdf", receipt.WritePDF)
}

func (h Handler) ReceiptXLSX(w http.ResponseWriter, r *http.Request) {
	h.downloadReceipt(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", receipt.WriteXLSX)
}

func (h Handler) downloadReceipt(
	w http.ResponseWriter,
	r *http.Request,
	contentType, ext string,
	write func(io.Writer, models.Receipt) error,
) {
	sess, _ := sessionFrom(r.Context())
	rc, ok := h.svc.Receipt(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, rc); err != nil {
		h.logger.Error("Failed to render receipt", "error", err, "format", ext)
		http.Error(w, "failed to render receipt", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="receipt-`+rc.TxID+`.`+ext+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (h Handler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Failed to render page", "error", err, "page", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// newSendPageData marks exactly one tab active, the first when activeForm is unknown.
func newSendPageData(sess models.Session, activeForm, selectedToken string) sendPageData {
	if activeForm != mainFormID && activeForm != tokenFormID {
		activeForm = sendTabs[0].FormID
	}
	tabs := make([]tab, len(sendTabs))
	for i, t := range sendTabs {
		t.Active = t.FormID == activeForm
		tabs[i] = t
	}

	selected := models.ParseTokenType(selectedToken)
	var options []tokenOption
	for _, t := range models.AllTokens() {
		if t == models.TokenMain {
			continue
		}
		options = append(options, tokenOption{
			Value:    t.String(),
			Balance:  t.Balance(sess.User).String(),
			Selected: t == selected,
		})
	}

	return sendPageData{
		Title:        "Send Funds",
		DarkMode:     sess.DarkMode,
		Tabs:         tabs,
		ActiveForm:   activeForm,
		TokenOptions: options,
		Balances:     balances{Main: models.TokenMain.Balance(sess.User).String()},
	}
}

func newReceiptView(r models.Receipt) *receiptView {
	return &receiptView{
		Token:  r.Token.String(),
		Amount: receipt.FormatAmount(r),
		Rows:   receipt.Rows(r),
	}
}
