package align

import "fmt"

// ParagraphList is the ordered, non-empty, trimmed paragraph text of one chapter.
type ParagraphList []string

// Kind tags a DisplayBlock with the edition it came from.
type Kind int

const (
	Original Kind = iota
	Translated
)

func (k Kind) String() string {
	switch k {
	case Original:
		return "original"
	case Translated:
		return "translated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes a Kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Original, Translated:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "original":
		*k = Original
	case "translated":
		*k = Translated
	default:
		return fmt.Errorf("unknown kind %q", text)
	}
	return nil
}

// DisplayBlock is one rendered unit of a merged chapter.
type DisplayBlock struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// AlignedBook holds the positionally paired chapters of both editions.
// Original and Titles always have the same length; Translated may be shorter
// or longer when chapters were skipped on one side during loading.
type AlignedBook struct {
	Original   []ParagraphList
	Translated []ParagraphList
	Titles     []string
}

// Len returns the number of navigable chapters.
func (b *AlignedBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Original)
}

// Title returns the display title of chapter i, or "" when i is out of range.
func (b *AlignedBook) Title(i int) string {
	if b == nil || i < 0 || i >= len(b.Titles) {
		return ""
	}
	return b.Titles[i]
}

// Chapter returns the merged blocks of chapter i. Missing chapters on either
// side are treated as empty.
func (b *AlignedBook) Chapter(i int) []DisplayBlock {
	if b == nil {
		return nil
	}
	return Merge(at(b.Original, i), at(b.Translated, i))
}

func at(chapters []ParagraphList, i int) ParagraphList {
	if i < 0 || i >= len(chapters) {
		return nil
	}
	return chapters[i]
}

// ChapterCount returns N = min(originalLen-originalOffset, translatedLen-translatedOffset).
// The result may be zero or negative; callers treat N <= 0 as an empty book.
func ChapterCount(originalLen, originalOffset, translatedLen, translatedOffset int) int {
	return min(originalLen-originalOffset, translatedLen-translatedOffset)
}

// FallbackTitle is the label used for chapters without a TOC title.
func FallbackTitle(k int) string {
	return fmt.Sprintf("Chapter %d", k)
}
