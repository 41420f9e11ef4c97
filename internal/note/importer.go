package note

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/security"
	"golang.org/x/net/html"
)

// ImportedPage は取得した外部ページから抽出した内容。
type ImportedPage struct {
	Title string
	Body  string
}

// Importer は外部ページの取得と内容の抽出を行う。
// 取得にはSSRFガード付きHTTPクライアントを使用する。
type Importer struct {
	guard   security.SSRFGuardService
	logger  *slog.Logger
	timeout time.Duration
	maxSize int64
}

// NewImporter はImporterを生成する。
func NewImporter(guard security.SSRFGuardService, logger *slog.Logger, timeout time.Duration, maxSize int64) *Importer {
	return &Importer{
		guard:   guard,
		logger:  logger,
		timeout: timeout,
		maxSize: maxSize,
	}
}

// Fetch は指定URLのページを取得し、タイトルと本文テキストを抽出する。
// URLの検証失敗と取得失敗はいずれもBAD_REQUESTとして分類される。
// 失敗の内部詳細はログにのみ記録する。
func (i *Importer) Fetch(ctx context.Context, rawURL string) (*ImportedPage, error) {
	if err := i.guard.ValidateURL(rawURL); err != nil {
		i.logger.Warn("import URL rejected",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewBadRequestError(map[string]string{
			"url": "URL is not allowed",
		})
	}

	client := i.guard.NewSafeClient(i.timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewBadRequestError(map[string]string{
			"url": "invalid URL",
		})
	}
	req.Header.Set("User-Agent", "Minuteman/1.0")

	resp, err := client.Do(req)
	if err != nil {
		i.logger.Warn("import fetch failed",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewBadRequestError(map[string]string{
			"url": "failed to fetch URL",
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		i.logger.Warn("import fetch returned non-OK status",
			slog.String("url", rawURL),
			slog.Int("status", resp.StatusCode),
		)
		return nil, model.NewBadRequestError(map[string]string{
			"url": fmt.Sprintf("URL returned status %d", resp.StatusCode),
		})
	}

	// レスポンスサイズを上限で打ち切る
	body, err := io.ReadAll(io.LimitReader(resp.Body, i.maxSize))
	if err != nil {
		return nil, model.NewBadRequestError(map[string]string{
			"url": "failed to read response",
		})
	}

	page := parsePage(string(body))
	if page.Title == "" {
		page.Title = fallbackTitle(rawURL)
	}

	return page, nil
}

// parsePage はHTMLからタイトルと本文テキストを抽出する。
// script/style/noscriptの内容は除外する。
// パースできない断片はx/net/htmlが寛容に処理するため、エラーにはしない。
func parsePage(rawHTML string) *ImportedPage {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return &ImportedPage{Body: rawHTML}
	}

	page := &ImportedPage{}
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if page.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.Body = strings.TrimSpace(sb.String())
	return page
}

// fallbackTitle はページに<title>がない場合のタイトルを生成する。
func fallbackTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "Imported note"
	}
	return "Imported from " + parsed.Host
}
