package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// NotSpecified is shown for null values and empty lists
const NotSpecified = "Not Specified"

// Fixed columns around the field columns
const (
	ColumnFileName = "File Name"
	ColumnStatus   = "Status"
	ColumnMethod   = "Extraction Method"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Display renders a value for the report
func Display(v model.Value) string {
	if v.Null {
		return NotSpecified
	}
	switch v.Kind {
	case model.KindString:
		if v.Str == "" {
			return NotSpecified
		}
		return v.Str
	case model.KindInteger:
		return strconv.Itoa(v.Int)
	case model.KindDate:
		return v.Date.Format(model.DateLayout)
	case model.KindMoney:
		return formatMoney(v.Money)
	case model.KindBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case model.KindList:
		if len(v.List) == 0 {
			return NotSpecified
		}
		return strings.Join(v.List, ", ")
	}
	return v.String()
}

func formatMoney(m model.Money) string {
	amount := strconv.FormatInt(m.Amount, 10)
	if sym, ok := currencySymbols[m.Currency]; ok {
		amount = sym + amount
	} else {
		amount = m.Currency + " " + amount
	}
	if m.Unit == model.UnitPerPerson {
		return amount + " per person"
	}
	return amount
}

// Header returns the inquiry sheet header row
func Header(specs []model.FieldSpec) []string {
	row := make([]string, 0, len(specs)+3)
	row = append(row, ColumnFileName)
	for _, s := range specs {
		row = append(row, s.Column)
	}
	return append(row, ColumnStatus, ColumnMethod)
}

// Row renders one result. Failed inquiries keep their row with empty fields.
func Row(specs []model.FieldSpec, res model.Result) []string {
	row := make([]string, 0, len(specs)+3)
	row = append(row, fileName(res))
	for _, s := range specs {
		if res.Record == nil {
			row = append(row, "")
			continue
		}
		row = append(row, Display(res.Record.Get(s.ID)))
	}
	method := ""
	if res.Record != nil {
		method = string(PrimaryMethod(res.Record))
	}
	return append(row, Status(res), method)
}

// Status summarises the outcome of one inquiry
func Status(res model.Result) string {
	if res.Failure != nil {
		return "Failed: " + res.Failure.Reason
	}
	if res.Record == nil {
		return "Failed"
	}
	switch n := len(res.Record.Warnings); n {
	case 0:
		return "Success"
	case 1:
		return "Success (1 warning)"
	default:
		return fmt.Sprintf("Success (%d warnings)", n)
	}
}

func fileName(res model.Result) string {
	switch {
	case res.Record != nil && res.Record.InquiryID != "":
		return res.Record.InquiryID
	case res.Failure != nil && res.Failure.InquiryID != "":
		return res.Failure.InquiryID
	}
	return res.InquiryID
}
