package decks

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "4 Lightning Strike", "4x Lightning Strike" or the Arena export form
	// "4 Lightning Strike (DMU) 123". The set and collector number are dropped.
	leadingQty = regexp.MustCompile(`^(\d+)x?\s+(.+?)(?:\s+\([A-Za-z0-9]+\)(?:\s+\S+)?)?$`)
	// "Lightning Strike x4"
	trailingQty = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
)

// ParseDeckList reads a text deck list into main and sideboard entries.
//
// Lines are "4 Name", "4x Name", "Name x4" or Arena exports with a set code
// and collector number. A "Sideboard" line (or an "SB:" prefix) starts the
// sideboard. In Arena exports that open with a "Deck" header the first blank
// line after mainboard cards does too. Lines starting with "#" or "//" are
// comments.
func ParseDeckList(text string) (main, side []EntryInput, err error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	arena := false
	sideboard := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		switch {
		case line == "":
			if arena && len(main) > 0 {
				sideboard = true
			}
			continue
		case strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//"):
			continue
		case lower == "deck" || lower == "mainboard" || lower == "main":
			arena = arena || lower == "deck"
			sideboard = false
			continue
		case strings.HasPrefix(lower, "sideboard"):
			sideboard = true
			continue
		case lower == "commander" || lower == "companion" || lower == "about":
			continue
		case strings.HasPrefix(lower, "name "):
			continue
		}

		toSide := sideboard
		if strings.HasPrefix(lower, "sb:") {
			toSide = true
			line = strings.TrimSpace(line[3:])
		}

		entry, ok := parseLine(line)
		if !ok {
			return nil, nil, invalid("text", "line %d: cannot parse %q", i+1, line)
		}
		if entry.Quantity < 1 {
			return nil, nil, invalid("text", "line %d: quantity must be at least 1", i+1)
		}

		if toSide {
			side = append(side, entry)
		} else {
			main = append(main, entry)
		}
	}

	return main, side, nil
}

func parseLine(line string) (EntryInput, bool) {
	if m := leadingQty.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil {
			return EntryInput{Name: strings.TrimSpace(m[2]), Quantity: q}, true
		}
	}
	if m := trailingQty.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[2]); err == nil {
			return EntryInput{Name: strings.TrimSpace(m[1]), Quantity: q}, true
		}
	}
	return EntryInput{}, false
}
