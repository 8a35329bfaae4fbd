// typing.go — the Typing Generator: converts a target string
// into an Injector command stream injecting ~8% human-like typos, using
// two archetypes (wrong character, swapped pair). No teacher analogue
// exists for this; built fresh from the spec's own description, in the
// style of the rest of this codebase (a pure, randomness-injected
// function returning a plan the caller executes, rather than a function
// that sleeps and writes itself — keeps it unit-testable without a fake
// clock).
package typing

import (
	"math/rand"
	"time"
	"unicode"
)

// ErrorRate is the approximate (not exact — spec §4.5 "no smoothing, no
// per-word quotas") probability that a given character position triggers
// a typo archetype instead of being typed correctly outright.
const ErrorRate = 0.08

// Step is one unit of the typing plan: a command to send to the Injector
// Link plus how long to sleep afterward before the next Step.
type Step struct {
	Command    string
	SleepAfter time.Duration
}

func typeStep(r rune, sleep time.Duration) Step {
	return Step{Command: "TYPE," + string(r), SleepAfter: sleep}
}

func backspaceStep(sleep time.Duration) Step {
	return Step{Command: "KEY,Backspace", SleepAfter: sleep}
}

func ms(r *rand.Rand, lo, hi int) time.Duration {
	return time.Duration(lo+r.Intn(hi-lo+1)) * time.Millisecond
}

func normalSleep(r *rand.Rand) time.Duration          { return ms(r, 35, 70) }
func wrongCharFirstPause(r *rand.Rand) time.Duration  { return ms(r, 150, 500) }
func wrongCharSecondPause(r *rand.Rand) time.Duration { return ms(r, 80, 160) }
func swapFirstPause(r *rand.Rand) time.Duration       { return ms(r, 200, 500) }
func correctionGap(r *rand.Rand) time.Duration        { return ms(r, 30, 60) }

// Generate builds the command stream for typing text, injecting errors at
// ErrorRate. Deterministic given r, so tests can assert on specific draws.
func Generate(text string, r *rand.Rand) []Step {
	runes := []rune(text)
	steps := make([]Step, 0, len(runes)*2)

	for i := 0; i < len(runes); {
		c := runes[i]
		if unicode.IsSpace(c) {
			steps = append(steps, typeStep(c, normalSleep(r)))
			i++
			continue
		}

		if r.Float64() < ErrorRate {
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) && r.Intn(2) == 0 {
				steps = append(steps, swappedPair(runes[i], runes[i+1], r)...)
				i += 2
				continue
			}
			steps = append(steps, wrongCharacter(runes, i, r)...)
			i++
			continue
		}

		steps = append(steps, typeStep(c, normalSleep(r)))
		i++
	}
	return steps
}

// wrongCharacter emits a plausibly-adjacent wrong letter from the current
// word, backspaces it, then types the correct character.
func wrongCharacter(runes []rune, i int, r *rand.Rand) []Step {
	correct := runes[i]
	wrong := adjacentWrongRune(runes, i, r)
	return []Step{
		typeStep(wrong, wrongCharFirstPause(r)),
		backspaceStep(wrongCharSecondPause(r)),
		typeStep(correct, normalSleep(r)),
	}
}

// swappedPair emits a, b in reversed order, corrects with two backspaces,
// then retypes them correctly.
func swappedPair(a, b rune, r *rand.Rand) []Step {
	return []Step{
		typeStep(b, 0),
		typeStep(a, swapFirstPause(r)),
		backspaceStep(correctionGap(r)),
		backspaceStep(correctionGap(r)),
		typeStep(a, 0),
		typeStep(b, normalSleep(r)),
	}
}

// adjacentWrongRune picks a letter from the current word (the contiguous
// non-whitespace run containing index i) that is not the correct character
// and not whitespace. Falls back to an adjacent letter on the alphabet
// when the word has no other candidate (e.g. a single-letter word); a
// non-letter with no other candidate is returned unchanged.
func adjacentWrongRune(runes []rune, i int, r *rand.Rand) rune {
	start, end := i, i
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for end < len(runes)-1 && !unicode.IsSpace(runes[end+1]) {
		end++
	}

	var candidates []rune
	for j := start; j <= end; j++ {
		if j != i && runes[j] != runes[i] && !unicode.IsSpace(runes[j]) {
			candidates = append(candidates, runes[j])
		}
	}
	if len(candidates) > 0 {
		return candidates[r.Intn(len(candidates))]
	}

	c := runes[i]
	if unicode.IsLetter(c) {
		if unicode.ToLower(c) == 'z' {
			return c - 1
		}
		return c + 1
	}
	return c
}
