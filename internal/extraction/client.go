// Package extraction は議事録からのアクションアイテム抽出機能を提供する。
// 抽出APIの呼び出しと抽出結果の保存を含む。
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ExtractedItem は抽出APIが返すアクションアイテム候補。
type ExtractedItem struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"due_date,omitempty"` // YYYY-MM-DD
}

// extractRequest は抽出APIへのリクエストボディ。
type extractRequest struct {
	Text string `json:"text"`
}

// extractResponse は抽出APIのレスポンスボディ。
type extractResponse struct {
	Items []ExtractedItem `json:"items"`
}

// Client は抽出APIのHTTPクライアント。
// 議事録の本文テキストを送信し、アクションアイテム候補の一覧を受け取る。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
	}
}

// Extract は本文テキストからアクションアイテム候補を抽出する。
// 取得失敗時はエラーを返し、分類（EXTRACTION_FAILEDへの変換）は呼び出し元が行う。
func (c *Client) Extract(ctx context.Context, text string) ([]ExtractedItem, error) {
	payload, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("抽出APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("抽出APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extract response: %w", err)
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("抽出APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to parse extract response: %w", err)
	}

	return result.Items, nil
}
