package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/logging"
)

const bilingualCSS = `p.original { margin: 1em 0 0.2em 0; }
p.translated { margin: 0 0 1em 0; color: #555; font-style: italic; }
`

// EPubBuilder exports aligned books as bilingual EPUB files, each chapter
// holding original and translated paragraphs interleaved.
type EPubBuilder struct {
	outputDir string
	thumbnail ThumbnailSettings
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir, thumbnail: DefaultThumbnailSettings()}
}

// Export compiles every chapter of book into a single EPUB file
func (p *EPubBuilder) Export(book *align.AlignedBook, meta Metadata) (string, error) {
	if book.Len() == 0 {
		return "", fmt.Errorf("no chapters to compile")
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// go-epub reads assets from disk
	workDir, err := os.MkdirTemp("", "dualbook-epub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	if meta.Author != "" {
		e.SetAuthor(meta.Author)
	}
	if meta.Language != "" {
		e.SetLang(meta.Language)
	}
	e.SetDescription("Bilingual edition with paragraph-aligned translation")

	cssSource := filepath.Join(workDir, "bilingual.css")
	if err := os.WriteFile(cssSource, []byte(bilingualCSS), 0644); err != nil {
		return "", fmt.Errorf("failed to write stylesheet: %w", err)
	}
	cssPath, err := e.AddCSS(cssSource, "bilingual.css")
	if err != nil {
		return "", fmt.Errorf("failed to add stylesheet: %w", err)
	}

	if len(meta.Cover) > 0 {
		p.addCover(e, workDir, meta.Cover)
	}

	for i := 0; i < book.Len(); i++ {
		chapterTitle := book.Title(i)
		body := renderChapter(chapterTitle, book.Chapter(i), meta)
		filename := fmt.Sprintf("chapter%03d.xhtml", i+1)
		if _, err := e.AddSection(body, chapterTitle, filename, cssPath); err != nil {
			return "", fmt.Errorf("failed to add chapter %d: %w", i+1, err)
		}
	}

	outputPath := filepath.Join(p.outputDir, sanitizeFilename(title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

// addCover embeds a thumbnail of the cover. A cover that cannot be decoded
// is dropped rather than failing the export.
func (p *EPubBuilder) addCover(e *epub.Epub, workDir string, cover []byte) {
	log := logging.Component("export")

	thumb, err := Thumbnail(cover, p.thumbnail)
	if err != nil {
		log.Warn().Err(err).Msg("skipping cover")
		return
	}

	source := filepath.Join(workDir, "cover.jpg")
	if err := os.WriteFile(source, thumb, 0644); err != nil {
		log.Warn().Err(err).Msg("skipping cover")
		return
	}

	imagePath, err := e.AddImage(source, "cover.jpg")
	if err != nil {
		log.Warn().Err(err).Msg("skipping cover")
		return
	}
	e.SetCover(imagePath, "")
}

func renderChapter(title string, blocks []align.DisplayBlock, meta Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))

	for _, block := range blocks {
		lang := meta.Language
		if block.Kind == align.Translated {
			lang = meta.TranslatedLanguage
		}
		b.WriteString(`<p class="` + block.Kind.String() + `"`)
		if lang != "" {
			b.WriteString(` xml:lang="` + html.EscapeString(lang) + `"`)
		}
		b.WriteString(">" + html.EscapeString(block.Text) + "</p>\n")
	}

	return b.String()
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		return "book"
	}
	return result
}
