package filterbar

import "strings"

// Class is a presentation hint for a rendered element.
type Class string

const (
	ClassActive    Class = "active"
	ClassLoading   Class = "loading"
	ClassHoverable Class = "hoverable"
	ClassVisible   Class = "visible"
)

var cssNames = map[Class]string{
	ClassActive:    "popup-home-top-filter-active",
	ClassLoading:   "popup-home-top-filter-loading",
	ClassHoverable: "popup-home-top-filter-hover",
	ClassVisible:   "popup-home-more-display",
}

// CSS returns the stylesheet class name used by the browser popup.
func (c Class) CSS() string {
	return cssNames[c]
}

// ClassNames lists the classes of the filter item at index.
func ClassNames(s Selection, index int) []Class {
	classes := make([]Class, 0, 3)
	if index == s.SelectedIndex {
		classes = append(classes, ClassActive)
	}
	if s.Loading && s.HasLoadingIndex && s.LoadingIndex == index {
		classes = append(classes, ClassLoading)
	}
	if !s.Loading {
		classes = append(classes, ClassHoverable)
	}
	return classes
}

// ClassString joins the classes of the item at index with single spaces.
func ClassString(s Selection, index int) string {
	return JoinClasses(ClassNames(s, index), false)
}

// JoinClasses renders classes as a space separated list, optionally using the
// stylesheet names.
func JoinClasses(classes []Class, css bool) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c == "" {
			continue
		}
		if css {
			parts = append(parts, c.CSS())
			continue
		}
		parts = append(parts, string(c))
	}
	return strings.Join(parts, " ")
}

// OverflowToggleClass decides whether the "more" toggle is shown. While the
// bar is still settling it only shows once loading already finished.
func OverflowToggleClass(s Selection) Class {
	if !s.Initializing || !s.Loading {
		return ClassVisible
	}
	return ""
}

// ScrollOffsetFor sums the widths of all items before index, each followed by
// margin.
func ScrollOffsetFor(index int, m Measurer, margin int) int {
	if m == nil {
		return 0
	}
	offset := 0
	for i := 0; i < index; i++ {
		offset += m.ItemWidth(i) + margin
	}
	return offset
}
