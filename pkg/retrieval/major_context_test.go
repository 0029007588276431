package retrieval

import (
	"context"
	"testing"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_MajorContext(t *testing.T) {
	idx := &fakeIndex{byCall: [][]Chunk{
		{{ID: "req", Score: 0.7, Text: "The BS requires 120 credit hours."}},
		{{ID: "req", Score: 0.7, Text: "The BS requires 120 credit hours."}},
		{{ID: "list", Score: 0.9, Text: "CSC 2720 Data Structures"}},
		{{ID: "pre", Score: 0.8, Text: "CSC 2720 prerequisite: CSC 1302"}},
		{{ID: "audit", Score: 0.5, Text: "Run a degree audit in PAWS each term."}},
	}}
	p := NewProvider(&fakeEmbedder{}, idx, NewFIFOCache(time.Minute, 100), logger.NewNopLogger())

	mc := p.MajorContext(context.Background(), "Computer Science", 10)

	require.Empty(t, mc.Error)
	assert.Equal(t, "Computer Science", mc.Major)
	require.Len(t, mc.RawContext, 4)
	assert.Equal(t, "list", mc.RawContext[0].ID)
	assert.Equal(t, "audit", mc.RawContext[3].ID)

	assert.Equal(t, []string{"The BS requires 120 credit hours."}, mc.Requirements)
	assert.Contains(t, mc.AvailableCourses, "CSC 2720 Data Structures")
	assert.Contains(t, mc.Prerequisites, "CSC 2720")
	assert.Contains(t, mc.Prerequisites, "CSC 1302")
	require.NotNil(t, mc.DegreeAudit)
	assert.Contains(t, *mc.DegreeAudit, "degree audit")
}

func TestProvider_MajorContextLimitsTopK(t *testing.T) {
	idx := &fakeIndex{byCall: [][]Chunk{
		{{ID: "a", Score: 0.1}, {ID: "b", Score: 0.2}},
		{{ID: "c", Score: 0.3}, {ID: "d", Score: 0.4}},
	}}
	p := NewProvider(&fakeEmbedder{}, idx, nil, logger.NewNopLogger())

	mc := p.MajorContext(context.Background(), "History", 3)

	require.Len(t, mc.RawContext, 3)
	assert.Equal(t, []string{"d", "c", "b"}, []string{mc.RawContext[0].ID, mc.RawContext[1].ID, mc.RawContext[2].ID})
}

func TestProvider_MajorContextEmptyMajor(t *testing.T) {
	p := NewProvider(&fakeEmbedder{}, &fakeIndex{}, nil, logger.NewNopLogger())
	mc := p.MajorContext(context.Background(), "  ", 10)
	assert.True(t, mc.Empty())
	assert.Nil(t, mc.DegreeAudit)
}

func TestProvider_MajorContextQuotaRecordsError(t *testing.T) {
	p := NewProvider(&fakeEmbedder{err: llm.NewError(llm.KindQuotaExceeded, "quota", nil)}, &fakeIndex{}, nil, logger.NewNopLogger())
	mc := p.MajorContext(context.Background(), "Biology", 10)
	assert.NotEmpty(t, mc.Error)
	assert.True(t, mc.Empty())
}
