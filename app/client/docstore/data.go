package docstore

import "strings"

// Result is one ranked snippet from the document store.
type Result struct {
	FileID   string
	Filename string
	Score    float64
	Text     string
}

type searchRequest struct {
	Query         string `json:"query"`
	MaxNumResults int    `json:"max_num_results,omitempty"`
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type searchItem struct {
	FileID   string          `json:"file_id"`
	Filename string          `json:"filename"`
	Score    float64         `json:"score"`
	Content  []searchContent `json:"content"`
}

type searchContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (s searchItem) joinedText() string {
	parts := make([]string, 0, len(s.Content))
	for _, c := range s.Content {
		if c.Type != "text" || c.Text == "" {
			continue
		}
		parts = append(parts, c.Text)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
