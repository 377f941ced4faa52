package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// JSONFetch membuat FetchFunc yang GET sebuah endpoint backend dan membongkar
// envelope {status, message, data}; body tanpa envelope dikembalikan apa
// adanya.
func JSONFetch(client *http.Client, url string) FetchFunc {
	return func(ctx context.Context) (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		var envelope struct {
			Data interface{} `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		if envelope.Data != nil {
			return envelope.Data, nil
		}

		var raw interface{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
}
