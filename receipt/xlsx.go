package receipt

import (
	"io"

	"walletportal/models"

	"github.com/tealeg/xlsx"
)

const sheetName = "Receipt"

// WriteXLSX writes r as a two-column Label/Value sheet.
func WriteXLSX(w io.Writer, r models.Receipt) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return err
	}

	addRow(sheet, "Type", r.Type)
	addRow(sheet, "Amount", FormatAmount(r))
	for _, row := range Rows(r) {
		addRow(sheet, row.Label, row.Value)
	}

	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}
