package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/reportgen/tools/web_search/models"
	"github.com/mohammad-safakhou/reportgen/utils"
)

const defaultEndpoint = "https://api.bing.microsoft.com/v7.0/search"

type Search struct {
	ApiKey   string
	Endpoint string
	Timeout  time.Duration
}

func (s Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://learn.microsoft.com/bing/search-apis/bing-web-search
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	url := fmt.Sprintf("%s?q=%s&count=%d", endpoint, utils.UrlQuery(q), k)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.ApiKey)
	resp, err := httpClient(s.Timeout).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing returned status: %d", resp.StatusCode)
	}
	var raw struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.WebPages.Value {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: r.Name, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}

func httpClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		return http.DefaultClient
	}
	return &http.Client{Timeout: timeout}
}
