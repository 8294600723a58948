package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
)

var (
	reBullet   = regexp.MustCompile(`^(?:・|-|[0-9]{1,2}[.．、)）]|[①-⑳])\s*`)
	reNoteMark = regexp.MustCompile(`^※`)
)

// extractTitle returns the first non-blank line, trimmed.
func extractTitle(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t, true
		}
	}
	return "", false
}

// extractItems finds list sections introduced by a header keyword and
// collects their bullet lines into one ExtractedItem per section.
// A section ends at a blank line or the next recognized header.
func extractItems(text string, catalog keywords.Catalog) []entity.ExtractedItem {
	lines := strings.Split(text, "\n")
	var out []entity.ExtractedItem

	for i := 0; i < len(lines); i++ {
		header, rest, ok := matchHeader(lines[i], catalog.ItemHeaders)
		if !ok {
			continue
		}
		nouns := splitInlineItems(rest)
		j := i + 1
		for ; j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if line == "" {
				break
			}
			if _, _, isItem := matchHeader(lines[j], catalog.ItemHeaders); isItem {
				break
			}
			if _, _, isNote := matchHeader(lines[j], catalog.NoteHeaders); isNote {
				break
			}
			if m := reBullet.FindString(line); m != "" {
				if noun := strings.TrimSpace(line[len(m):]); noun != "" {
					nouns = append(nouns, noun)
				}
			}
		}
		i = j - 1
		if len(nouns) == 0 {
			continue
		}
		out = append(out, classifySection(header, nouns, catalog))
	}
	return out
}

// classifySection picks the section category from the first noun that
// matches any category vocabulary and derives confidence from the
// fraction of nouns matched.
func classifySection(header string, nouns []string, catalog keywords.Catalog) entity.ExtractedItem {
	category := constants.ItemOther
	matched := 0
	for _, noun := range nouns {
		cat, ok := catalog.ClassifyItem(noun)
		if !ok {
			continue
		}
		matched++
		if category == constants.ItemOther {
			category = cat
		}
	}
	fraction := float64(matched) / float64(len(nouns))
	return entity.ExtractedItem{
		Text:       header,
		Items:      nouns,
		Confidence: 0.5 + 0.5*fraction,
		Category:   category,
	}
}

// matchHeader reports whether the line opens a section with one of the
// given header keywords, returning the keyword and the remainder after
// the colon, if any.
func matchHeader(line string, headers []string) (header, rest string, ok bool) {
	t := strings.TrimSpace(line)
	for _, h := range headers {
		if h == "" || !strings.HasPrefix(t, h) {
			continue
		}
		tail := t[len(h):]
		if tail == "" {
			return h, "", true
		}
		if strings.HasPrefix(tail, ":") {
			return h, strings.TrimSpace(tail[1:]), true
		}
	}
	return "", "", false
}

func splitInlineItems(rest string) []string {
	if rest == "" {
		return nil
	}
	var nouns []string
	for _, part := range strings.FieldsFunc(rest, func(r rune) bool {
		return r == '、' || r == ',' || r == '・' || r == ' '
	}) {
		if p := strings.TrimSpace(part); p != "" {
			nouns = append(nouns, p)
		}
	}
	return nouns
}

type locationHit struct {
	pos, end int
	name     string
}

// extractLocations matches the catalog's venue vocabulary anywhere in
// the text and picks up values after location headers (場所：...).
// A match nested inside a longer match names the same venue and is
// dropped. Returns distinct matches in first-seen order.
func extractLocations(text string, catalog keywords.Catalog) []string {
	var hits []locationHit
	for _, term := range catalog.Locations {
		if term == "" {
			continue
		}
		if idx := strings.Index(text, term); idx >= 0 {
			hits = append(hits, locationHit{pos: idx, end: idx + len(term), name: term})
		}
	}
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if _, rest, ok := matchHeader(line, catalog.LocationHeaders); ok && rest != "" {
			pos := offset + strings.Index(line, rest)
			hits = append(hits, locationHit{pos: pos, end: pos + len(rest), name: rest})
		}
		offset += len(line) + 1
	}
	// Longest span first at each position, so nested matches meet their
	// container before the containment check.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].end > hits[j].end
	})

	seen := make(map[string]struct{}, len(hits))
	var kept []locationHit
	var out []string
	for _, h := range hits {
		if containedIn(kept, h) {
			continue
		}
		kept = append(kept, h)
		if _, dup := seen[h.name]; dup {
			continue
		}
		seen[h.name] = struct{}{}
		out = append(out, h.name)
	}
	return out
}

func containedIn(kept []locationHit, h locationHit) bool {
	for _, k := range kept {
		if h.pos >= k.pos && h.end <= k.end && (h.end-h.pos) < (k.end-k.pos) {
			return true
		}
	}
	return false
}

// extractNotes collects caveat lines: lines starting with ※ anywhere,
// and lines under a note header until a blank line or new header.
func extractNotes(text string, catalog keywords.Catalog) []string {
	lines := strings.Split(text, "\n")
	var notes []string
	inBlock := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			inBlock = false
			continue
		}
		if reNoteMark.MatchString(line) {
			notes = append(notes, line)
			continue
		}
		if _, rest, ok := matchHeader(line, catalog.NoteHeaders); ok {
			inBlock = true
			if rest != "" {
				notes = append(notes, rest)
			}
			continue
		}
		if _, _, ok := matchHeader(line, catalog.ItemHeaders); ok {
			inBlock = false
			continue
		}
		if inBlock {
			if m := reBullet.FindString(line); m != "" {
				line = strings.TrimSpace(line[len(m):])
			}
			if line != "" {
				notes = append(notes, line)
			}
		}
	}
	return notes
}
