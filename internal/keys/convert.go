package keys

import "strings"

// Converter translates stroke strings between RTFCRE and s-keys form, with
// side sets precomputed for fast membership tests. Converters are immutable
// once built and safe for concurrent use.
type Converter struct {
	sep       byte
	split     byte
	special   string
	unordered string
	shift     string
	center    [256]bool
	rightSK   [256]bool // right-side keys after lowercasing
	valid     [256]bool // every key, delimiter, and alias character
	aliases   map[byte]string
}

// NewConverter builds a converter for the given layout. The layout should be
// verified first; NewConverter assumes its invariants hold.
func NewConverter(l *Layout) *Converter {
	// Key designations are written in RTFCRE (uppercase), but the lexer only
	// ever sees s-keys, so right-side designations must be lowercased here or
	// they would never match anything.
	toSKeys := func(keys string) string {
		out := []byte(keys)
		for i := range out {
			k := out[i]
			if strings.IndexByte(l.Left, k) < 0 && strings.IndexByte(l.Center, k) < 0 &&
				strings.IndexByte(l.Right, k) >= 0 {
				out[i] = k - 'A' + 'a'
			}
		}
		return string(out)
	}
	c := &Converter{
		sep:       l.Sep[0],
		split:     l.Split[0],
		special:   toSKeys(l.Special),
		unordered: toSKeys(l.Unordered),
		// The shift key is inserted into strokes before the side split, so it
		// stays in RTFCRE form.
		shift: l.Shift,
		aliases:   make(map[byte]string, len(l.Aliases)),
	}
	for i := 0; i < len(l.Center); i++ {
		c.center[l.Center[i]] = true
	}
	lower := strings.ToLower(l.Right)
	for i := 0; i < len(lower); i++ {
		c.rightSK[lower[i]] = true
	}
	for _, group := range []string{l.Sep, l.Split, l.Left, l.Center, l.Right, lower} {
		for i := 0; i < len(group); i++ {
			c.valid[group[i]] = true
		}
	}
	for a, k := range l.Aliases {
		c.aliases[a[0]] = k
		c.valid[a[0]] = true
	}
	return c
}

// Sep returns the stroke delimiter character.
func (c *Converter) Sep() byte { return c.sep }

// Special returns the special key as an s-keys string.
func (c *Converter) Special() string { return c.special }

// Unordered returns all keys allowed to match out of steno order.
func (c *Converter) Unordered() string { return c.unordered }

// ToSKeys transforms an RTFCRE steno string into s-keys form.
func (c *Converter) ToSKeys(s string) string {
	return c.strokeMap(s, c.strokeToSKeys)
}

// ToRTFCRE transforms an s-keys string back to RTFCRE. Applying it to a
// string already in RTFCRE form is a no-op.
func (c *Converter) ToRTFCRE(s string) string {
	return c.strokeMap(s, c.strokeToRTFCRE)
}

// Cleanse strips all characters that cannot appear in a steno string before
// converting to s-keys. Lexer input may come straight from the user, in which
// case the formatting cannot be trusted.
func (c *Converter) Cleanse(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c.valid[s[i]] {
			b.WriteByte(s[i])
		}
	}
	return c.ToSKeys(b.String())
}

// FirstStroke returns the leading stroke of an s-keys string.
func (c *Converter) FirstStroke(skeys string) string {
	if i := strings.IndexByte(skeys, c.sep); i >= 0 {
		return skeys[:i]
	}
	return skeys
}

// FilterUnordered returns the unordered keys present in a single stroke.
func (c *Converter) FilterUnordered(stroke string) string {
	var b strings.Builder
	for i := 0; i < len(c.unordered); i++ {
		if strings.IndexByte(stroke, c.unordered[i]) >= 0 {
			b.WriteByte(c.unordered[i])
		}
	}
	return b.String()
}

// strokeMap applies a conversion function to every stroke in a key string.
// Single strokes skip the string carving entirely.
func (c *Converter) strokeMap(s string, fn func(string) string) string {
	if strings.IndexByte(s, c.sep) < 0 {
		return fn(s)
	}
	strokes := strings.Split(s, string(c.sep))
	for i, stroke := range strokes {
		strokes[i] = fn(stroke)
	}
	return strings.Join(strokes, string(c.sep))
}

// strokeToSKeys expands aliases, splits the stroke into left/center and right
// groups using the hyphen or the last center key, and lowercases the right group.
func (c *Converter) strokeToSKeys(s string) string {
	if len(c.aliases) > 0 {
		s = c.expandAliases(s)
	}
	// An explicit hyphen splits the sides directly.
	if i := strings.LastIndexByte(s, c.split); i >= 0 {
		return joinLowerRight(s[:i], s[i+1:])
	}
	// With no hyphen, the allowable side combinations are L, LC, LCR and CR,
	// so the last center key in the stroke is the place to split.
	for i := len(s) - 1; i >= 0; i-- {
		if c.center[s[i]] {
			return joinLowerRight(s[:i+1], s[i+1:])
		}
	}
	// No center keys narrows it to left side only. Nothing to change.
	return s
}

// strokeToRTFCRE finds the first right-side key, inserts the hyphen before it
// unless it immediately follows a center key, and uppercases the stroke. A
// stroke with no right-side (lowercase) keys is already valid RTFCRE.
func (c *Converter) strokeToRTFCRE(s string) string {
	for i := 0; i < len(s); i++ {
		if c.rightSK[s[i]] {
			if i == 0 || !c.center[s[i-1]] {
				s = s[:i] + string(c.split) + s[i:]
			}
			return strings.ToUpper(s)
		}
	}
	return s
}

// expandAliases replaces each alias character with its real key and inserts
// the shift key if it is not already present.
func (c *Converter) expandAliases(s string) string {
	var b strings.Builder
	replaced := false
	for i := 0; i < len(s); i++ {
		if k, ok := c.aliases[s[i]]; ok {
			b.WriteString(k)
			replaced = true
		} else {
			b.WriteByte(s[i])
		}
	}
	if !replaced {
		return s
	}
	out := b.String()
	if c.shift != "" && !strings.Contains(out, c.shift) {
		out = c.shift + out
	}
	return out
}

func joinLowerRight(left, right string) string {
	if right == "" {
		return left
	}
	return left + strings.ToLower(right)
}
