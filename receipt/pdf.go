package receipt

import (
	"io"

	"walletportal/models"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders r as a one-page A4 PDF.
func WritePDF(w io.Writer, r models.Receipt) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Transaction Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 7, "Sent "+r.Token.String(), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, FormatAmount(r), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	for _, row := range Rows(r) {
		pdf.CellFormat(50, 9, row.Label, "B", 0, "", false, 0, "")
		pdf.CellFormat(0, 9, row.Value, "B", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 7, "Thank you for using our service", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

type Row struct {
	Label string
	Value string
}

// Rows lists the detail lines of a receipt; the note row is omitted when empty.
func Rows(r models.Receipt) []Row {
	rows := []Row{
		{Label: "Date", Value: FormatDate(r)},
		{Label: "From", Value: r.Sender},
		{Label: "To", Value: r.Recipient},
		{Label: "Token", Value: r.Token.String()},
	}
	if r.Note != "" {
		rows = append(rows, Row{Label: "Note", Value: r.Note})
	}
	return append(rows,
		Row{Label: "Transaction ID", Value: r.TxID},
		Row{Label: "Status", Value: r.Status},
	)
}
