package normalize

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/tripparse/internal/model"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxReplacementRatio is the share of U+FFFD above which decoded text is rejected
const maxReplacementRatio = 0.10

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// rupeeMojibake is U+20B9 encoded as UTF-8, read back as Windows-1252, re-encoded as UTF-8
const rupeeMojibake = "â‚¹"

// Normalizer decodes raw inquiry bytes into canonical text. Safe for concurrent use.
type Normalizer struct {
	maxLength int
	markers   map[string]struct{}
}

// New creates a normalizer. maxLength is in runes; 0 disables truncation.
func New(maxLength int, hinglishMarkers []string) *Normalizer {
	markers := make(map[string]struct{}, len(hinglishMarkers))
	for _, m := range hinglishMarkers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			markers[m] = struct{}{}
		}
	}
	return &Normalizer{
		maxLength: maxLength,
		markers:   markers,
	}
}

// Normalize decodes raw, canonicalises it and detects its language mix.
// Empty input is not an error.
func (n *Normalizer) Normalize(raw []byte) (model.InquiryText, error) {
	decoded, encName, err := decode(raw)
	if err != nil {
		return model.InquiryText{}, err
	}

	if ratio := replacementRatio(decoded); ratio > maxReplacementRatio {
		return model.InquiryText{}, &model.DecodeError{
			Encoding: encName,
			Reason:   fmt.Sprintf("%.0f%% of decoded characters are invalid", ratio*100),
		}
	}

	text, err := canonicalize(decoded)
	if err != nil {
		return model.InquiryText{}, &model.DecodeError{Encoding: encName, Reason: err.Error()}
	}
	cut := truncate(text, n.maxLength)

	return model.InquiryText{
		Raw:       raw,
		Text:      cut,
		Encoding:  encName,
		Lang:      DetectLang(cut, n.markers),
		Truncated: len(cut) < len(text),
	}, nil
}

// decode picks an encoding and returns UTF-8 text
func decode(raw []byte) (string, string, error) {
	hasUTF16BOM := bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE)

	if !hasUTF16BOM {
		if bytes.IndexByte(raw, 0) >= 0 {
			return "", "", &model.DecodeError{Reason: "binary content (NUL bytes)"}
		}
		if utf8.Valid(raw) {
			return string(bytes.TrimPrefix(raw, bomUTF8)), "utf-8", nil
		}
	}

	enc, name, _ := charset.DetermineEncoding(raw, "text/plain")
	if name == "utf-8" {
		// The sniffer only inspects a prefix; the full input already failed UTF-8 validation.
		enc, name = charmap.Windows1252, "windows-1252"
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", name, &model.DecodeError{Encoding: name, Reason: err.Error()}
	}
	return string(out), name, nil
}

func replacementRatio(s string) float64 {
	total, bad := 0, 0
	for _, r := range s {
		total++
		if r == utf8.RuneError {
			bad++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bad) / float64(total)
}

// canonicalize applies NFC, digit folding and control stripping, then whitespace cleanup
func canonicalize(s string) (string, error) {
	s = strings.ReplaceAll(s, rupeeMojibake, "₹")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	t := transform.Chain(
		norm.NFC,
		runes.Map(foldDigit),
		runes.Remove(runes.Predicate(strippable)),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}

	return collapseWhitespace(out), nil
}

// foldDigit maps Devanagari digits to ASCII
func foldDigit(r rune) rune {
	if r >= '०' && r <= '९' {
		return '0' + (r - '०')
	}
	return r
}

func strippable(r rune) bool {
	switch r {
	case '\n', '\t':
		return false
	case '\uFEFF', '\u200B':
		return true
	}
	return unicode.IsControl(r)
}

// collapseWhitespace trims lines, squeezes blank runs and inline spacing
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isInlineSpace), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func isInlineSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// truncate cuts s to at most max runes
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return strings.TrimSpace(s[:i])
		}
		count++
	}
	return s
}
