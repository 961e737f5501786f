package hotkey

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/hotkeys/internal/input/key"
)

// TokenSeparator separates alternative tokens within a specification.
const TokenSeparator = ","

// plusKeyword names the '+' character, which is otherwise the split key.
const plusKeyword = "plus"

// Parse parses a specification string into one predicate per
// comma-separated token, in source order.
//
// The first unresolvable token aborts the parse; no predicates are
// returned alongside an error.
func Parse(spec string, opts Options) ([]Predicate, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tokens := strings.Split(spec, TokenSeparator)
	preds := make([]Predicate, 0, len(tokens))
	for _, tok := range tokens {
		p, err := parseToken(strings.TrimSpace(tok), opts)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// MustParse parses a specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string, opts Options) []Predicate {
	preds, err := Parse(spec, opts)
	if err != nil {
		panic("invalid hotkey specification: " + spec + ": " + err.Error())
	}
	return preds
}

// parseToken parses one comma-separated token.
func parseToken(token string, opts Options) (Predicate, error) {
	parts := strings.Split(token, opts.splitKey())
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	normalizeMainKey(parts)

	p := Predicate{
		MatchAllModifiers: opts.MatchAllModifiers,
		AcceptOnKeyDown:   opts.AcceptOnKeyDown,
		Source:            token,
	}

	// Unrecognized modifier names set nothing.
	for _, part := range parts[:len(parts)-1] {
		switch key.ModifierFromName(part) {
		case key.ModAlt:
			p.Alt = true
		case key.ModCtrl:
			p.Ctrl = true
		case key.ModShift:
			p.Shift = true
		}
	}

	mainKey := parts[len(parts)-1]
	on, code, ok := resolveMainKey(mainKey, opts.Capitalization)
	if !ok {
		return Predicate{}, &InvalidKeyError{Token: token, Key: mainKey}
	}
	p.On = on
	p.Code = code
	return p, nil
}

// normalizeMainKey moves a lone non-modifier sub-key to the main-key
// position when the token ends in a modifier name, so "a + ctrl" reads as
// "ctrl + a". Tokens made only of modifiers keep their last one as the
// main key.
func normalizeMainKey(parts []string) {
	last := len(parts) - 1
	if last == 0 || key.ModifierFromName(parts[last]) == key.ModNone {
		return
	}
	lone := -1
	for i, part := range parts[:last] {
		if key.ModifierFromName(part) != key.ModNone {
			continue
		}
		if lone >= 0 {
			return
		}
		lone = i
	}
	if lone >= 0 {
		parts[lone], parts[last] = parts[last], parts[lone]
	}
}

// resolveMainKey maps the main key to the field and value a predicate matches.
func resolveMainKey(name string, capitalization bool) (MatchOn, uint16, bool) {
	if name == "" {
		return 0, 0, false
	}

	if code, ok := key.CodeFromName(name); ok {
		return MatchRawcode, code, true
	}

	if name == plusKeyword {
		return MatchKeychar, '+', true
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if r > 0xFFFF {
			return 0, 0, false
		}
		if !capitalization {
			if code, ok := key.LetterCode(r); ok {
				return MatchRawcode, code, true
			}
		}
		return MatchKeychar, uint16(r), true
	}

	return 0, 0, false
}

// JoinSources comma-joins the source tokens of preds.
func JoinSources(preds []Predicate) string {
	sources := make([]string, len(preds))
	for i, p := range preds {
		sources[i] = p.Source
	}
	return strings.Join(sources, TokenSeparator)
}
