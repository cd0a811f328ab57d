package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Record 是一条归一化后的新闻记录。五个字段全部必填：
// 缺失的可选内容一律以空串代替，排版阶段因此无需做存在性分支。
type Record struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	Source    string `json:"source"`
}

const (
	fetchTimeout  = 30 * time.Second
	unknownSource = "Unknown Source"
)

// Fetcher 按顺序拉取一组 RSS/Atom 源并归一化为 Record。
// 单个源的失败只影响该源自身：记录一条日志后按零条记录处理，不中断整次运行。
type Fetcher struct {
	urls   []string
	parser *gofeed.Parser
	log    *slog.Logger
}

// NewFetcher 创建针对给定源列表的 Fetcher。log 为 nil 时使用默认 logger。
func NewFetcher(urls []string, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: fetchTimeout}
	return &Fetcher{
		urls:   urls,
		parser: parser,
		log:    log,
	}
}

// Fetch 依次抓取所有源并返回归一化记录，顺序与源列表及源内条目一致。
// 不做并发、不重试、不去重。
func (f *Fetcher) Fetch(ctx context.Context) []Record {
	var records []Record
	for _, url := range f.urls {
		parsed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			f.log.Error("抓取订阅源失败", "url", url, "error", err)
			continue
		}
		source := parsed.Title
		if source == "" {
			source = unknownSource
		}
		for _, item := range parsed.Items {
			if item == nil {
				continue
			}
			records = append(records, Record{
				Title:     item.Title,
				Link:      item.Link,
				Summary:   item.Description,
				Published: item.Published,
				Source:    source,
			})
		}
	}
	return records
}
