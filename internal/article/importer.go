package article

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const importTimeout = 15 * time.Second

// 导入的正文要点数量上限，避免把整页法规塞进一篇文章
const maxImportedPoints = 6

var importClient = &http.Client{Timeout: importTimeout}

// ImportDraftFromURL 抓取一个外部法规页面，提取标题和正文段落，
// 生成一篇待编辑的草稿。解析是启发式的：第一段作引言，
// 随后的段落作要点，管理员在后台修订后再发布。
func ImportDraftFromURL(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("无法构造导入请求: %w", err)
	}
	req.Header.Set("User-Agent", "AsesorVialImporter/1.0")

	resp, err := importClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("抓取页面失败: 状态码 %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return nil, fmt.Errorf("页面 %s 中找不到标题", pageURL)
	}

	var paragraphs []string
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		// 过滤导航、版权声明之类的短句
		if len([]rune(text)) < 40 {
			return true
		}
		paragraphs = append(paragraphs, text)
		return len(paragraphs) < maxImportedPoints+1
	})
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("页面 %s 中找不到正文段落", pageURL)
	}

	draft := &Article{
		Title:        title,
		Introduction: paragraphs[0],
		Points:       paragraphs[1:],
		ReadMoreLink: pageURL,
		Status:       StatusDraft,
	}
	if draft.Points == nil {
		draft.Points = []string{}
	}
	if draft.ShortDescription == "" {
		short := []rune(paragraphs[0])
		if len(short) > 160 {
			short = short[:160]
		}
		draft.ShortDescription = string(short)
	}
	return draft, nil
}
