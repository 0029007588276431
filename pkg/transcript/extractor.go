package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gsu-chatbot-be/internal/pkg/logger"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a document yields no usable text.
var ErrNoText = errors.New("text extraction failed: please ensure the document contains readable text")

const (
	MediaTypePDF       = "application/pdf"
	minFallbackTextLen = 100
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mediaType string) (string, error)
}

type Extractor struct {
	logger logger.ILogger
}

var _ TextExtractor = (*Extractor)(nil)

func NewExtractor(logger logger.ILogger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText reads PDFs with a text-layer parser and everything else as
// UTF-8. A PDF that cannot be parsed is retried as raw UTF-8 when that yields
// more than a trivial amount of text.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoText
	}

	if isPDF(mediaType, data) {
		text, err := readPDF(data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		e.logger.Warn("TRANSCRIPT", "PDF text layer unreadable, trying raw text", map[string]interface{}{
			"error": fmt.Sprint(err),
			"bytes": len(data),
		})
		return fallbackText(data)
	}

	text := strings.ToValidUTF8(string(data), "")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func isPDF(mediaType string, data []byte) bool {
	return strings.EqualFold(mediaType, MediaTypePDF) || bytes.HasPrefix(data, []byte("%PDF-"))
}

func fallbackText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrNoText
	}
	text := string(data)
	if len(strings.TrimSpace(text)) <= minFallbackTextLen {
		return "", ErrNoText
	}
	return text, nil
}

// readPDF extracts the plain text layer. The parser panics on some malformed
// inputs, so panics are reported as errors.
func readPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}
	return buf.String(), nil
}
