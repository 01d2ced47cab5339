package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate shortens a string to at most width terminal cells, adding an
// ellipsis if needed.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, ellipsis)
}

// fit truncates value and pads it with spaces to exactly width cells.
func fit(value string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	value = truncate(value, width)
	if right {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

// truncateMiddle shortens a string by removing cells from the middle,
// preserving both the beginning and end. Paths keep their file name.
func truncateMiddle(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 2 {
		return runewidth.Truncate(value, width, "")
	}

	if i := strings.LastIndex(value, "/"); i >= 0 {
		name := value[i:]
		keep := width - runewidth.StringWidth(name) - 1
		if keep >= 4 {
			return runewidth.Truncate(value[:i], keep, "") + ellipsis + name
		}
	}

	keep := width - 1
	head := keep / 2
	tail := keep - head
	runes := []rune(value)
	suffix := ""
	for i := len(runes) - 1; i >= 0 && runewidth.StringWidth(suffix)+runewidth.RuneWidth(runes[i]) <= tail; i-- {
		suffix = string(runes[i]) + suffix
	}
	return runewidth.Truncate(value, head, "") + ellipsis + suffix
}

// plural returns "1 application" or "3 applications".
func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
