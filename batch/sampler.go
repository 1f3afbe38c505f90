package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// TopicRow is one entry of the topic catalog CSV.
type TopicRow struct {
	Type     string
	Genre    string
	SubGenre string
	Topic    string
}

// LoadTopics reads the topic catalog. Expected columns:
// type,genre,sub_genre,topic with a header row.
func LoadTopics(path string) ([]TopicRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topic catalog: %w", err)
	}
	defer f.Close()
	return parseTopics(f)
}

func parseTopics(r io.Reader) ([]TopicRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read topic catalog header: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(header[0])) != "type" {
		return nil, fmt.Errorf("unexpected topic catalog header: %v", header)
	}

	var rows []TopicRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read topic catalog row: %w", err)
		}
		rows = append(rows, TopicRow{
			Type:     strings.TrimSpace(record[0]),
			Genre:    strings.TrimSpace(record[1]),
			SubGenre: strings.TrimSpace(record[2]),
			Topic:    strings.TrimSpace(record[3]),
		})
	}
	if len(rows) == 0 {
		return nil, errors.New("topic catalog is empty")
	}
	return rows, nil
}

// Sampler draws topic rows with replacement, so the same topic can
// appear in multiple rows of one run.
type Sampler struct {
	rows []TopicRow
	rng  *rand.Rand
}

func NewSampler(rows []TopicRow, seed int64) (*Sampler, error) {
	if len(rows) == 0 {
		return nil, errors.New("sampler needs at least one topic row")
	}
	return &Sampler{rows: rows, rng: rand.New(rand.NewSource(seed))}, nil
}

// Pick draws the next row. A draw whose genre/sub-genre pairing equals
// the immediately preceding row's is re-drawn from the other pairings,
// so consecutive rows never repeat a pairing unless the catalog holds
// only one.
func (s *Sampler) Pick(prev *TopicRow) TopicRow {
	row := s.rows[s.rng.Intn(len(s.rows))]
	if prev == nil || !samePairing(row, *prev) {
		return row
	}

	// 직전 행과 같은 genre/sub_genre 조합이면 다른 조합에서 다시 뽑는다.
	others := make([]TopicRow, 0, len(s.rows))
	for _, r := range s.rows {
		if !samePairing(r, *prev) {
			others = append(others, r)
		}
	}
	if len(others) == 0 {
		return row
	}
	return others[s.rng.Intn(len(others))]
}

func samePairing(a, b TopicRow) bool {
	return a.Genre == b.Genre && a.SubGenre == b.SubGenre
}
