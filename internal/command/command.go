// command.go — parses the wire grammar of spec §3/§9 into a discriminated
// union of Action variants at the boundary (POST /automation), per the
// spec's "Tagged variants vs string commands" design note: keep the wire
// grammar unchanged (comma-delimited strings) but stop passing raw strings
// deeper into the Action Engine than necessary.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the Action variants.
type Kind int

const (
	KindFillField Kind = iota
	KindClickSelector
	KindClickOption
	KindDelay
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindFillField:
		return "FILL_FIELD"
	case KindClickSelector:
		return "CLICK_SELECTOR"
	case KindClickOption:
		return "CLICK_OPTION"
	case KindDelay:
		return "DELAY"
	default:
		return "RAW"
	}
}

// Action is one entry in a parsed command list.
type Action struct {
	Kind Kind

	Selector  string // FILL_FIELD, CLICK_SELECTOR
	Text      string // FILL_FIELD
	Container string // CLICK_OPTION
	Label     string // CLICK_OPTION
	DelayMS   int    // DELAY

	Raw string // RAW: the original line, forwarded verbatim to the Injector Link
}

// Parse converts one line of the wire grammar into an Action. Unrecognized
// keywords fall through to KindRaw and are forwarded to the Injector Link
// untouched, so a malformed FILL_FIELD (missing args) is itself an
// error, but an unrecognized command name never is.
func Parse(line string) (Action, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Action{}, fmt.Errorf("command: empty line")
	}

	parts := strings.SplitN(trimmed, ",", 3)
	keyword := strings.TrimSpace(parts[0])

	switch keyword {
	case "FILL_FIELD":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return Action{}, fmt.Errorf("command: FILL_FIELD requires a selector")
		}
		text := ""
		if len(parts) == 3 {
			text = parts[2]
		}
		return Action{Kind: KindFillField, Selector: strings.TrimSpace(parts[1]), Text: text}, nil

	case "CLICK_SELECTOR":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return Action{}, fmt.Errorf("command: CLICK_SELECTOR requires a selector")
		}
		// The selector itself may contain no further commas in practice, but
		// CSS attribute selectors can (e.g. [data-x="a,b"]) — rejoin any
		// remaining parts rather than silently dropping them.
		selector := parts[1]
		if len(parts) == 3 {
			selector += "," + parts[2]
		}
		return Action{Kind: KindClickSelector, Selector: strings.TrimSpace(selector)}, nil

	case "CLICK_OPTION":
		if len(parts) < 3 || strings.TrimSpace(parts[1]) == "" || strings.TrimSpace(parts[2]) == "" {
			return Action{}, fmt.Errorf("command: CLICK_OPTION requires a container selector and a label")
		}
		return Action{Kind: KindClickOption, Container: strings.TrimSpace(parts[1]), Label: parts[2]}, nil

	case "DELAY":
		if len(parts) < 2 {
			return Action{}, fmt.Errorf("command: DELAY requires a millisecond count")
		}
		ms, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || ms < 0 {
			return Action{}, fmt.Errorf("command: DELAY requires a non-negative integer, got %q", parts[1])
		}
		return Action{Kind: KindDelay, DelayMS: ms}, nil

	default:
		return Action{Kind: KindRaw, Raw: trimmed}, nil
	}
}

// ParseList parses an ordered command list, stopping at the first error
// (a malformed entry is rejected wholesale by POST /automation — spec
// §4.1 "400 on malformed body").
func ParseList(lines []string) ([]Action, error) {
	actions := make([]Action, 0, len(lines))
	for i, line := range lines {
		a, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("command %d (%q): %w", i, line, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
