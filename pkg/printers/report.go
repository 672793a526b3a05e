package printers

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/tokenbar/pkg/app"
)

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}

// Report prints the activity of every filter entry within the window.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	pp.Title(fmt.Sprintf("Report · %s · last %s (%s → %s)", result.Address, label, since, until))

	if result.Total == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " No transactions in this window.\n\n")
		return
	}

	in := color.New(color.FgGreen)
	out := color.New(color.FgRed)
	for _, section := range result.Sections {
		pp.NewLine()
		_, _ = fmt.Fprintf(pp.out(), "%s  %s %s  net %s\n",
			section.Entry.Label(),
			in.Sprintf("+%s", section.In),
			out.Sprintf("-%s", section.Out),
			section.Net())
		pp.Transactions(section.Transactions)
	}
}
