package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/gazette/dsl"
	"github.com/ByLCY/gazette/feed"
)

const testReport = `report daily v1 {
    meta {
        title: "News Articles"
    }
    page letter portrait margin 50pt 20pt 50pt 50pt {
        threshold: 50pt
    }
    feeds {
        feed "https://example.com/rss"
    }
}
`

func mustReport(t *testing.T, src string) *dsl.Report {
	t.Helper()
	report, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析报告定义失败: %v", err)
	}
	return report
}

// TestBuildSingleRecord 对照单条记录的完整排版结果：
// 块序、坐标、链接矩形与空摘要的单行表现。
func TestBuildSingleRecord(t *testing.T) {
	report := mustReport(t, testReport)
	records := []feed.Record{{Title: "A", Link: "http://x", Source: "S"}}

	res, err := Build(report, records, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("预期 1 页，实际 %d 页", len(res.Pages))
	}
	page := res.Pages[0]
	if page.Width != 612 || page.Height != 792 {
		t.Fatalf("页面尺寸错误: %g x %g", page.Width, page.Height)
	}
	if len(page.Texts) != 6 {
		t.Fatalf("预期 6 个文本块，实际 %d: %+v", len(page.Texts), page.Texts)
	}

	title := page.Texts[0]
	if title.Content != "News Articles" || title.Y != 742 || title.FontSize != 16 {
		t.Fatalf("文档标题块错误: %+v", title)
	}

	wantFirstLines := []string{"News Articles", "Title: A", "Source: S", "Published:", "Read more", "Summary:"}
	for i, want := range wantFirstLines {
		if got := page.Texts[i].Lines[0]; got != want {
			t.Fatalf("第 %d 块首行预期 %q，实际 %q", i, want, got)
		}
	}

	// 空摘要仍然恰好产出一行前缀。
	summary := page.Texts[5]
	if len(summary.Lines) != 1 || summary.Lines[0] != "Summary:" {
		t.Fatalf("空摘要应恰好一行 Summary:，实际 %v", summary.Lines)
	}

	// 块间纵向位置严格递减。
	for i := 1; i < len(page.Texts); i++ {
		if page.Texts[i].Y >= page.Texts[i-1].Y {
			t.Fatalf("第 %d 块位置未递减: %g >= %g", i, page.Texts[i].Y, page.Texts[i-1].Y)
		}
	}

	if len(page.Links) != 1 {
		t.Fatalf("预期 1 个链接矩形，实际 %d", len(page.Links))
	}
	link := page.Links[0]
	if link.URL != "http://x" || link.X != 50 || link.W != 50 || link.H != 12 {
		t.Fatalf("链接矩形错误: %+v", link)
	}
	readMore := page.Texts[4]
	if link.Y != readMore.Y-2 {
		t.Fatalf("链接矩形应锚定在 Read more 下方 2pt: %g vs %g", link.Y, readMore.Y)
	}
}

// TestBuildMultiPage 断言：长文档换到多页，每页第一个文本块都从页顶常量开始。
func TestBuildMultiPage(t *testing.T) {
	report := mustReport(t, testReport)
	long := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 80))
	records := make([]feed.Record, 50)
	for i := range records {
		records[i] = feed.Record{Title: "A", Link: "http://x", Source: "S", Summary: long}
	}

	res, err := Build(report, records, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("长文档预期多页，实际 %d 页", len(res.Pages))
	}
	for i, page := range res.Pages {
		if len(page.Texts) == 0 {
			t.Fatalf("第 %d 页为空页", i)
		}
		if page.Texts[0].Y != 742 {
			t.Fatalf("第 %d 页首块应从 742 开始，实际 %g", i, page.Texts[0].Y)
		}
	}
}

// TestBuildBreakOnlyBetweenRecords 断言：换页检查只在记录边界发生，
// 单条记录内部即使越过阈值也继续排在同一页。
func TestBuildBreakOnlyBetweenRecords(t *testing.T) {
	report := mustReport(t, testReport)
	long := strings.TrimSpace(strings.Repeat("word ", 2000))
	records := []feed.Record{{Title: "A", Link: "http://x", Source: "S", Summary: long}}

	res, err := Build(report, records, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("单条记录不应跨页，实际 %d 页", len(res.Pages))
	}
	texts := res.Pages[0].Texts
	last := texts[len(texts)-1]
	// 末块自身可能仍从阈值之上起笔，用块底边判断是否越过了阈值。
	if bottom := last.Y - last.Height; bottom >= 50 {
		t.Fatalf("预期记录内部越过阈值继续排版，末块底边 %g", bottom)
	}
}

// TestBuildSchemelessLink 断言：无协议前缀的 URL 原样绑定，不做补全或校验。
func TestBuildSchemelessLink(t *testing.T) {
	report := mustReport(t, testReport)
	records := []feed.Record{{Title: "A", Link: "example.com/foo", Source: "S"}}

	res, err := Build(report, records, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if got := res.Pages[0].Links[0].URL; got != "example.com/foo" {
		t.Fatalf("URL 应原样保留，实际 %q", got)
	}
}

// TestBuildInterpolatesMeta 断言：标题中的 ${...} 占位符按绑定数据求值。
func TestBuildInterpolatesMeta(t *testing.T) {
	src := strings.Replace(testReport, `title: "News Articles"`, `title: "News for ${date}"`, 1)
	report := mustReport(t, src)
	data := map[string]any{"date": "2026-08-26"}

	res, err := Build(report, nil, data, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if res.Meta.Title != "News for 2026-08-26" {
		t.Fatalf("标题插值错误: %q", res.Meta.Title)
	}
	if got := res.Pages[0].Texts[0].Content; got != "News for 2026-08-26" {
		t.Fatalf("文档标题块未使用插值结果: %q", got)
	}
}

// TestBuildLandscapeSwapsPage 断言：landscape 交换页面宽高。
func TestBuildLandscapeSwapsPage(t *testing.T) {
	src := strings.Replace(testReport, "page letter portrait", "page letter landscape", 1)
	report := mustReport(t, src)

	res, err := Build(report, nil, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	page := res.Pages[0]
	if page.Width != 792 || page.Height != 612 {
		t.Fatalf("landscape 页面尺寸错误: %g x %g", page.Width, page.Height)
	}
}

// TestBuildRejectsMissingMeasurer 断言：缺少测量后端直接报错。
func TestBuildRejectsMissingMeasurer(t *testing.T) {
	report := mustReport(t, testReport)
	if _, err := Build(report, nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("缺少 Measurer 应报错")
	}
	if _, err := Build(nil, nil, nil, BuildOptions{Measurer: stubMeasurer{}}); err == nil {
		t.Fatalf("空报告应报错")
	}
}

// TestBuildDefaultFonts 断言：未声明字体时回退到内建 Helvetica 常规/粗体。
func TestBuildDefaultFonts(t *testing.T) {
	report := mustReport(t, testReport)
	res, err := Build(report, nil, nil, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	body, ok := res.Fonts["Body"]
	if !ok || !body.IsBuiltin || body.Base != "Helvetica" || body.Style != "" {
		t.Fatalf("默认正文字体错误: %+v", body)
	}
	headline, ok := res.Fonts["Headline"]
	if !ok || !headline.IsBuiltin || headline.Style != "bold" {
		t.Fatalf("默认标题字体错误: %+v", headline)
	}
}
