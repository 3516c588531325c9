package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	notionAPIBase    = "https://api.notion.com/v1"
	notionAPIVersion = "2022-06-28"
	notionPageSize   = 100
)

// NotionClient implements Store against the Notion REST API.
type NotionClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewNotionClient creates a Notion client with the given integration token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		token:   token,
		baseURL: notionAPIBase,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type notionSearchRequest struct {
	Query    string `json:"query"`
	PageSize int    `json:"page_size"`
	Filter   struct {
		Value    string `json:"value"`
		Property string `json:"property"`
	} `json:"filter"`
}

type notionSearchResponse struct {
	Results []struct {
		ID         string `json:"id"`
		URL        string `json:"url"`
		Properties map[string]struct {
			Type  string       `json:"type"`
			Title []notionText `json:"title"`
		} `json:"properties"`
	} `json:"results"`
}

type notionText struct {
	PlainText string `json:"plain_text"`
}

type notionBlocksResponse struct {
	Results    []notionBlock `json:"results"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor"`
}

// notionBlock carries the rich text of every block type we flatten to text.
// The API nests the text under a key named after the block type, so each
// variant appears as its own field.
type notionBlock struct {
	Type             string            `json:"type"`
	Paragraph        *notionRichText   `json:"paragraph"`
	Heading1         *notionRichText   `json:"heading_1"`
	Heading2         *notionRichText   `json:"heading_2"`
	Heading3         *notionRichText   `json:"heading_3"`
	BulletedListItem *notionRichText   `json:"bulleted_list_item"`
	NumberedListItem *notionRichText   `json:"numbered_list_item"`
	ToDo             *notionRichText   `json:"to_do"`
	Quote            *notionRichText   `json:"quote"`
	Callout          *notionRichText   `json:"callout"`
	Code             *notionRichText   `json:"code"`
}

type notionRichText struct {
	RichText []notionText `json:"rich_text"`
}

// Search finds pages matching the query, title-matched by Notion.
func (c *NotionClient) Search(ctx context.Context, query string) ([]Page, error) {
	reqPayload := notionSearchRequest{Query: query, PageSize: notionPageSize}
	reqPayload.Filter.Value = "page"
	reqPayload.Filter.Property = "object"

	var resp notionSearchResponse
	if err := c.post(ctx, "/search", reqPayload, &resp); err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	pages := make([]Page, 0, len(resp.Results))
	for _, r := range resp.Results {
		page := Page{ID: r.ID, URL: r.URL}
		for _, prop := range r.Properties {
			if prop.Type == "title" && len(prop.Title) > 0 {
				page.Title = joinPlainText(prop.Title)
				break
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// FetchContent returns the full plain text of a page, following block
// pagination until has_more is false.
func (c *NotionClient) FetchContent(ctx context.Context, pageID string) (string, error) {
	var parts []string
	cursor := ""

	for {
		path := fmt.Sprintf("/blocks/%s/children?page_size=%d", url.PathEscape(pageID), notionPageSize)
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		var resp notionBlocksResponse
		if err := c.get(ctx, path, &resp); err != nil {
			return "", fmt.Errorf("fetch blocks: %w", err)
		}

		for _, block := range resp.Results {
			if text := blockText(block); text != "" {
				parts = append(parts, text)
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return strings.Join(parts, "\n"), nil
}

func blockText(b notionBlock) string {
	for _, rt := range []*notionRichText{
		b.Paragraph, b.Heading1, b.Heading2, b.Heading3,
		b.BulletedListItem, b.NumberedListItem, b.ToDo, b.Quote, b.Callout, b.Code,
	} {
		if rt != nil {
			return joinPlainText(rt.RichText)
		}
	}
	return ""
}

func joinPlainText(texts []notionText) string {
	var sb strings.Builder
	for _, t := range texts {
		sb.WriteString(t.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

func (c *NotionClient) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, "POST", path, bytes.NewReader(body), result)
}

func (c *NotionClient) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, "GET", path, nil, result)
}

func (c *NotionClient) do(ctx context.Context, method, path string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionAPIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notion API error: %s - %s", resp.Status, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
