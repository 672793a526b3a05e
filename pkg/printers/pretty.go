package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/tokenbar/pkg/asset"
)

// PrettyPrint renders filter entries and transactions as colored tables.
type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " asset")
	default:
		_, _ = c.Fprintln(pp.out(), " assets")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Filters prints the merged filter list in bar order. The selected index, if
// in range, is marked.
func (pp *PrettyPrint) Filters(entries []asset.FilterEntry, selected int) {
	if len(entries) == 0 {
		pp.none()
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for i, e := range entries {
		marker := " "
		label := e.Label()
		if i == selected {
			marker = "›"
			label = bold.Sprint(label)
		}
		amount := e.Amount.String()
		kind := string(e.Kind)
		if e.Watched() {
			amount = faint.Sprint(amount)
			kind = faint.Sprint(kind)
		}
		row := []interface{}{marker, label, amount, kind, e.Name}
		if pp.ShowID {
			row = append(row, y.Sprint(e.AssetID))
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(2)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Watched prints the watch list with the time each asset was added.
func (pp *PrettyPrint) Watched(list []asset.WatchedAsset) {
	if len(list) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, w := range list {
		label := w.Symbol
		if label == "" {
			label = w.AssetID
		}
		tbl.AddRow(label, w.AssetID, faint.Sprint(w.Added.Local().Format("2006-01-02 15:04")))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Transactions prints transactions newest first, as stored.
func (pp *PrettyPrint) Transactions(txs []asset.Tx) {
	if len(txs) == 0 {
		pp.none()
		return
	}
	in := color.New(color.FgGreen)
	out := color.New(color.FgRed)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, tx := range txs {
		amount := in.Sprintf("+%s", tx.Amount)
		if tx.Direction == asset.DirectionOut {
			amount = out.Sprintf("-%s", tx.Amount)
		}
		who := tx.Counterparty
		if who == "" {
			who = "unknown"
		}
		row := []interface{}{tx.Time.Local().Format("2006-01-02 15:04"), amount, who}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(tx.ID)))
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 16 {
		return id[:16]
	}
	return id
}
