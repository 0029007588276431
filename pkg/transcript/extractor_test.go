package transcript

import (
	"context"
	"strings"
	"testing"

	"gsu-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_PlainText(t *testing.T) {
	e := NewExtractor(logger.NewNopLogger())

	text, err := e.ExtractText(context.Background(), []byte("CSC 1301 A 3.0\nMATH 1111 B 3.0"), "text/plain")
	require.NoError(t, err)
	assert.Contains(t, text, "MATH 1111")

	_, err = e.ExtractText(context.Background(), []byte("   \n"), "text/plain")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = e.ExtractText(context.Background(), nil, "text/plain")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractor_BrokenPDF(t *testing.T) {
	e := NewExtractor(logger.NewNopLogger())

	t.Run("short garbage fails", func(t *testing.T) {
		_, err := e.ExtractText(context.Background(), []byte("%PDF-1.4 broken"), MediaTypePDF)
		assert.ErrorIs(t, err, ErrNoText)
	})

	t.Run("long text body falls back", func(t *testing.T) {
		body := "%PDF-1.4\n" + strings.Repeat("CSC 1301 Principles of Computer Science I A 3.0\n", 5)
		text, err := e.ExtractText(context.Background(), []byte(body), MediaTypePDF)
		require.NoError(t, err)
		assert.Contains(t, text, "CSC 1301")
	})
}

func TestExtractor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(logger.NewNopLogger()).ExtractText(ctx, []byte("x"), "text/plain")
	assert.ErrorIs(t, err, context.Canceled)
}
