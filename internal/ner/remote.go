package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/textprep/internal/article"
)

// Remote calls an external NER model server over HTTP. The server reports
// spans in character offsets; Remote converts them to byte offsets and
// drops any span that no longer matches the text after conversion.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote builds a client for a model server at baseURL.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type remoteEntity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start_char"`
	End   int    `json:"end_char"`
}

type extractResponse struct {
	Entities []remoteEntity `json:"entities"`
	Error    string         `json:"error"`
}

// Name implements Extractor.
func (r *Remote) Name() string { return "remote" }

// Extract implements Extractor. Rate limiting and server errors come back
// as *RetryableError so callers can back off and retry.
func (r *Remote) Extract(ctx context.Context, text string) ([]article.Entity, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ner server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner server status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp extractResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("ner server error: %s", apiResp.Error)
	}

	ents := convertSpans(text, apiResp.Entities)
	sortEntities(ents)
	return ents, nil
}

// convertSpans maps character offsets to byte offsets. Spans out of range
// or not matching the text are dropped rather than poisoning downstream
// offset bookkeeping.
func convertSpans(text string, raw []remoteEntity) []article.Entity {
	byteAt := make([]int, 0, len(text)+1)
	for i := range text {
		byteAt = append(byteAt, i)
	}
	byteAt = append(byteAt, len(text))

	var ents []article.Entity
	for _, e := range raw {
		if e.Start < 0 || e.End > len(byteAt)-1 || e.Start >= e.End {
			continue
		}
		start, end := byteAt[e.Start], byteAt[e.End]
		if text[start:end] != e.Text {
			continue
		}
		ents = append(ents, article.Entity{
			Text:  e.Text,
			Type:  strings.ToUpper(e.Type),
			Start: start,
			End:   end,
		})
	}
	return ents
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Ready probes the model server's health endpoint. A reachable server
// without a loaded model reports ErrModelUnavailable.
func (r *Remote) Ready(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ner server health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ner server health status %d", resp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if !health.ModelLoaded {
		return fmt.Errorf("%w: server status %q", ErrModelUnavailable, health.Status)
	}
	return nil
}

// Close releases idle connections.
func (r *Remote) Close() {
	r.httpClient.CloseIdleConnections()
}
