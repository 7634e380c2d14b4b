package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
)

// Qdrant point ids must be UUIDs or unsigned ints, so chunk ids are mapped to
// deterministic v5 UUIDs and the original id is kept in the payload.
var pointNamespace = uuid.MustParse("7a5c8f10-93d4-4c6a-9bb1-6e1f2b4f0c3d")

const scrollPageSize = 256

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Index is a minimal REST client to Qdrant. The collection is created with
// cosine distance on first upsert, once the vector dimension is known.
type Index struct {
	cfg    Config
	client *http.Client

	initOnce sync.Once
	initErr  error
}

func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector,omitempty"`
	Payload map[string]any `json:"payload"`
}

func pointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

func (idx *Index) ensureCollection(ctx context.Context, dimension int) error {
	idx.initOnce.Do(func() {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": "Cosine",
			},
		}
		idx.initErr = idx.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", idx.cfg.Collection), body, nil)
	})
	return idx.initErr
}

func (idx *Index) Upsert(ctx context.Context, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := idx.ensureCollection(ctx, len(records[0].Vector)); err != nil {
		return err
	}

	points := make([]point, len(records))
	for i, rec := range records {
		points[i] = point{
			ID:      pointID(rec.ID),
			Vector:  rec.Vector,
			Payload: recordPayload(rec),
		}
	}
	body := map[string]any{"points": points}
	return idx.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", idx.cfg.Collection), body, nil)
}

func (idx *Index) Query(ctx context.Context, vector []float32, topK int, filter *vectorindex.Filter) ([]vectorindex.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if f := documentFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", idx.cfg.Collection), req, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		rec, err := payloadRecord(r.Payload)
		if err != nil {
			return nil, err
		}
		// Qdrant reports cosine similarity, not distance.
		matches = append(matches, vectorindex.Match{Record: rec, Distance: 1 - r.Score})
	}
	return matches, nil
}

func (idx *Index) Fetch(ctx context.Context, filter *vectorindex.Filter) ([]vectorindex.Record, error) {
	var records []vectorindex.Record
	var offset any

	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if f := documentFilter(filter); f != nil {
			req["filter"] = f
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/scroll", idx.cfg.Collection), req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Result.Points {
			rec, err := payloadRecord(p.Payload)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if resp.Result.NextPageOffset == nil {
			return records, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

func (idx *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	points := make([]string, len(ids))
	for i, id := range ids {
		points[i] = pointID(id)
	}
	body := map[string]any{"points": points}
	return idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/delete?wait=true", idx.cfg.Collection), body, nil)
}

func (idx *Index) UpdateMetadata(ctx context.Context, ids []string, patch map[string]string) error {
	if len(ids) == 0 || len(patch) == 0 {
		return nil
	}
	for _, id := range ids {
		recs, err := idx.fetchByRecordID(ctx, id)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if rec.Meta.Extra == nil {
				rec.Meta.Extra = make(map[string]string, len(patch))
			}
			for k, v := range patch {
				rec.Meta.Extra[k] = v
			}
			body := map[string]any{
				"payload": recordPayload(rec),
				"points":  []string{pointID(rec.ID)},
			}
			if err := idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/payload?wait=true", idx.cfg.Collection), body, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (idx *Index) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/count", idx.cfg.Collection), map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (idx *Index) fetchByRecordID(ctx context.Context, recordID string) ([]vectorindex.Record, error) {
	req := map[string]any{
		"limit":        scrollPageSize,
		"with_payload": true,
		"filter": map[string]any{
			"must": []any{
				map[string]any{"key": "_id", "match": map[string]any{"value": recordID}},
			},
		},
	}
	var resp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := idx.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/scroll", idx.cfg.Collection), req, &resp); err != nil {
		return nil, err
	}
	records := make([]vectorindex.Record, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		rec, err := payloadRecord(p.Payload)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordPayload(rec vectorindex.Record) map[string]any {
	return map[string]any{
		"_id":         rec.ID,
		"document_id": rec.Meta.DocumentID,
		"content":     rec.Content,
		"meta":        rec.Meta,
	}
}

func payloadRecord(payload map[string]any) (vectorindex.Record, error) {
	rec := vectorindex.Record{}
	if v, ok := payload["_id"].(string); ok {
		rec.ID = v
	}
	if v, ok := payload["content"].(string); ok {
		rec.Content = v
	}
	raw, err := json.Marshal(payload["meta"])
	if err != nil {
		return rec, fmt.Errorf("failed to re-encode qdrant payload: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Meta); err != nil {
		return rec, fmt.Errorf("failed to decode qdrant payload: %w", err)
	}
	return rec, nil
}

func documentFilter(filter *vectorindex.Filter) map[string]any {
	if filter == nil || len(filter.DocumentIDs) == 0 {
		return nil
	}
	return map[string]any{
		"must": []any{
			map[string]any{"key": "document_id", "match": map[string]any{"any": filter.DocumentIDs}},
		},
	}
}

func (idx *Index) do(ctx context.Context, method, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, idx.cfg.URL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idx.cfg.APIKey != "" {
		req.Header.Set("api-key", idx.cfg.APIKey)
	}
	resp, err := idx.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ vectorindex.Index = (*Index)(nil)
