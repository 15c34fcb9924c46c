// Package segment splits raw OCR slip text into labeled logical blocks
// using a bank profile's label dictionary. Segmentation is total: text
// with no recognizable labels yields no blocks, never an error.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"slipnorm/internal/profile"
)

// Block is one labeled region of the slip. Text is the content after the
// label on the anchor line plus any following unlabeled lines, joined with
// newlines; Lines keeps them separate for positional rules.
type Block struct {
	Field profile.Field

	// Label is the matched label exactly as it appeared in the source.
	Label string

	Text  string
	Lines []string
}

// Blocks is the segmentation result. Primary blocks keep the first
// occurrence per field; repeated reference labels all land in Refs, in
// order of appearance, feeding the secondary reference slots.
type Blocks struct {
	primary map[profile.Field]*Block
	Refs    []*Block

	// Unlabeled lines in order of appearance, for date detection and
	// positional party extraction.
	Unlabeled []string
}

// Get returns the primary block for a field, or nil when the label never
// matched. Absence is not an error.
func (b *Blocks) Get(f profile.Field) *Block {
	return b.primary[f]
}

// markupRe strips decorative HTML-like tags the OCR layer leaves behind
// (<figure>, <table>, ...).
var markupRe = regexp.MustCompile(`<[^>]*>`)

// Split segments raw text against the profile's label dictionary. Labels
// match case-insensitively at the start of a line and must be followed by
// a non-letter boundary, so "TO" does not anchor on "Total".
func Split(rawText string, p *profile.Profile) *Blocks {
	out := &Blocks{primary: make(map[profile.Field]*Block)}

	clean := markupRe.ReplaceAllString(rawText, " ")
	var open *Block
	for _, line := range strings.Split(clean, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lbl, rest, ok := matchLabel(line, p)
		if !ok {
			if open != nil {
				open.Lines = append(open.Lines, line)
			} else {
				out.Unlabeled = append(out.Unlabeled, line)
			}
			continue
		}

		blk := &Block{Field: lbl.Field, Label: line[:len(line)-len(rest)]}
		blk.Label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(blk.Label), ":"))
		rest = strings.TrimSpace(rest)
		if rest = strings.TrimSpace(strings.TrimLeft(rest, ":|")); rest != "" {
			blk.Lines = append(blk.Lines, strings.TrimSpace(rest))
		}

		if lbl.Field == profile.FieldReference {
			out.Refs = append(out.Refs, blk)
		}
		// First occurrence wins the primary slot for every field.
		if _, seen := out.primary[lbl.Field]; !seen {
			out.primary[lbl.Field] = blk
		}
		// A status label is its own value; it must not absorb the
		// following lines (the date usually comes right after it).
		if lbl.Field == profile.FieldStatus {
			open = nil
		} else {
			open = blk
		}
	}

	finalize(out)
	return out
}

func finalize(b *Blocks) {
	for _, blk := range b.primary {
		blk.Text = strings.Join(blk.Lines, "\n")
	}
	for _, blk := range b.Refs {
		blk.Text = strings.Join(blk.Lines, "\n")
	}
}

// matchLabel tries every label in the profile's dictionary (longest first)
// as a prefix of the line.
func matchLabel(line string, p *profile.Profile) (profile.Label, string, bool) {
	lower := strings.ToLower(line)
	for _, lbl := range p.Labels {
		lt := strings.ToLower(lbl.Text)
		if !strings.HasPrefix(lower, lt) {
			continue
		}
		rest := line[len(lbl.Text):]
		if rest != "" {
			r := []rune(rest)[0]
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		return lbl, rest, true
	}
	return profile.Label{}, "", false
}
