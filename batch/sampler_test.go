package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogCSV = `type,genre,sub_genre,topic
fiction,adventure,treasure,a lost map in the attic
fiction,mystery,detective,the case of the missing bell
non-fiction,science,animals,how octopuses change color
non-fiction,history,inventions,the first bicycle
`

func TestParseTopics(t *testing.T) {
	rows, err := parseTopics(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, TopicRow{
		Type:     "fiction",
		Genre:    "adventure",
		SubGenre: "treasure",
		Topic:    "a lost map in the attic",
	}, rows[0])
}

func TestParseTopicsRejectsMissingHeader(t *testing.T) {
	_, err := parseTopics(strings.NewReader("fiction,adventure,treasure,topic\n"))
	assert.Error(t, err)
}

func TestParseTopicsRejectsEmptyCatalog(t *testing.T) {
	_, err := parseTopics(strings.NewReader("type,genre,sub_genre,topic\n"))
	assert.Error(t, err)
}

func TestParseTopicsRejectsShortRow(t *testing.T) {
	_, err := parseTopics(strings.NewReader("type,genre,sub_genre,topic\nfiction,adventure\n"))
	assert.Error(t, err)
}

func TestSamplerDrawsWithReplacement(t *testing.T) {
	rows := []TopicRow{{Genre: "only", SubGenre: "row", Topic: "t"}}
	s, err := NewSampler(rows, 1)
	require.NoError(t, err)

	// 단일 행 카탈로그에서도 복원 추출이므로 계속 뽑을 수 있어야 한다.
	for i := 0; i < 5; i++ {
		assert.Equal(t, rows[0], s.Pick(nil))
	}
}

func TestSamplerNeverRepeatsPairingAcrossConsecutiveRows(t *testing.T) {
	rows, err := parseTopics(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	s, err := NewSampler(rows, 42)
	require.NoError(t, err)

	prev := s.Pick(nil)
	for i := 0; i < 2000; i++ {
		next := s.Pick(&prev)
		if next.Genre == prev.Genre && next.SubGenre == prev.SubGenre {
			t.Fatalf("draw %d repeated pairing %s/%s", i, next.Genre, next.SubGenre)
		}
		prev = next
	}
}

func TestSamplerKeepsDrawingFromSinglePairingCatalog(t *testing.T) {
	rows := []TopicRow{
		{Genre: "only", SubGenre: "pair", Topic: "first"},
		{Genre: "only", SubGenre: "pair", Topic: "second"},
	}
	s, err := NewSampler(rows, 7)
	require.NoError(t, err)

	// 조합이 하나뿐이면 연속 출현을 받아들인다.
	prev := s.Pick(nil)
	for i := 0; i < 20; i++ {
		next := s.Pick(&prev)
		assert.Equal(t, "only", next.Genre)
		prev = next
	}
}

func TestNewSamplerRejectsEmptyRows(t *testing.T) {
	_, err := NewSampler(nil, 1)
	assert.Error(t, err)
}
