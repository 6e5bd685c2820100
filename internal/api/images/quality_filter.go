package images

import (
	"strings"
	"unicode"
)

// defaultRejects are words that, in a title or URL, mark a photo that is not
// a picture of the place itself.
var defaultRejects = []string{
	// people
	"people", "person", "man", "woman", "men", "women", "girl", "boy", "child", "children", "kid", "kids",
	"portrait", "selfie", "face", "model", "wedding", "bride", "couple", "crowd", "tourist", "tourists",
	"my face",
	// interiors
	"interior", "inside", "bedroom", "bathroom", "kitchen", "room", "lobby", "office", "hallway",
	// vehicles
	"car", "cars", "truck", "bus", "motorcycle", "bike", "bicycle", "vehicle", "train", "airplane", "plane",
	// monochrome
	"bw", "monochrome", "blackandwhite", "black and white", "grayscale", "greyscale",
	// statues
	"statue", "statues", "sculpture", "bust",
	// signage
	"sign", "signs", "signage", "logo", "poster", "billboard", "text", "menu",
	// insects and animals up close
	"insect", "insects", "bug", "bee", "butterfly", "spider", "ant", "macro",
	// night
	"night", "nighttime", "dark", "neon",
	// low effort
	"meme", "funny", "joke", "screenshot", "drawing", "illustration", "map",
}

// QualityFilter rejects candidates whose title or URL mentions any reject
// word. Words match whole tokens, so "man" does not reject "Germany";
// multi-word entries match as phrases.
type QualityFilter struct {
	words   map[string]struct{}
	phrases []string
}

func NewQualityFilter(extra ...string) *QualityFilter {
	f := &QualityFilter{words: make(map[string]struct{})}
	for _, r := range append(append([]string{}, defaultRejects...), extra...) {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if strings.Contains(r, " ") {
			f.phrases = append(f.phrases, r)
		} else {
			f.words[r] = struct{}{}
		}
	}
	return f
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Accept reports whether c passes the filter.
func (f *QualityFilter) Accept(c Candidate) bool {
	if c.URL == "" {
		return false
	}
	tokens := append(tokenize(c.Title), tokenize(c.URL)...)
	for _, t := range tokens {
		if _, found := f.words[t]; found {
			return false
		}
	}
	joined := " " + strings.Join(tokenize(c.Title), " ") + " "
	for _, p := range f.phrases {
		if strings.Contains(joined, " "+p+" ") {
			return false
		}
	}
	return true
}
