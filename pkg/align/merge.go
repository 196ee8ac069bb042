package align

// Merge interleaves two paragraph lists by index. For every position the
// original paragraph (if any) precedes the translated one (if any), and all
// blocks of position i precede those of position i+1.
func Merge(original, translated ParagraphList) []DisplayBlock {
	n := max(len(original), len(translated))
	blocks := make([]DisplayBlock, 0, len(original)+len(translated))

	for i := 0; i < n; i++ {
		if i < len(original) && original[i] != "" {
			blocks = append(blocks, DisplayBlock{Kind: Original, Text: original[i], Position: i})
		}
		if i < len(translated) && translated[i] != "" {
			blocks = append(blocks, DisplayBlock{Kind: Translated, Text: translated[i], Position: i})
		}
	}

	return blocks
}
