package filterbar

// Geometry holds the fixed measures of the bar, in the unit of the renderer
// (pixels for the web popup, cells/rows for the terminal).
type Geometry struct {
	// Baseline is the fixed height of the bar. An open overflow panel sits
	// right below it.
	Baseline int
	// Margin is the gap between two filter items.
	Margin int
	// StripWidth is the visible width of the filter strip.
	StripWidth int
}

var (
	// WebGeometry matches the popup layout of the browser wallet.
	WebGeometry = Geometry{Baseline: 103, Margin: 10, StripWidth: 275}
	// TerminalGeometry is the default for the TUI.
	TerminalGeometry = Geometry{Baseline: 3, Margin: 1, StripWidth: 60}
)

// Panel tracks the "more assets" overflow panel. A closed panel is shifted up
// by its own height so it hides behind the bar.
type Panel struct {
	open     bool
	top      int
	measured int
	baseline int
}

// NewPanel returns a closed panel with no measured content.
func NewPanel(baseline int) *Panel {
	return &Panel{
		top:      baseline,
		measured: baseline,
		baseline: baseline,
	}
}

// Open reports whether the panel is expanded.
func (p *Panel) Open() bool { return p.open }

// Top is the current vertical offset of the panel.
func (p *Panel) Top() int { return p.top }

// Baseline is the bar height the panel hangs from.
func (p *Panel) Baseline() int { return p.baseline }

// Toggle opens or closes the panel. Opening is refused while a filter switch
// is loading; closing always succeeds. It reports whether the state changed.
func (p *Panel) Toggle(loading bool) bool {
	if loading && !p.open {
		return false
	}
	if !p.open {
		p.top = p.baseline
	} else {
		p.top = p.measured
	}
	p.open = !p.open
	return true
}

// ContentMeasured records the rendered height of the panel content and moves
// the panel to the matching closed offset, whether it is open or not.
func (p *Panel) ContentMeasured(height int) {
	p.measured = p.baseline - height
	p.top = p.measured
}
