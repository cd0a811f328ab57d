package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/ByLCY/gazette/binding"
	"github.com/ByLCY/gazette/dsl"
	"github.com/ByLCY/gazette/feed"
	"github.com/ByLCY/gazette/layout"
	"github.com/ByLCY/gazette/logger"
	"github.com/ByLCY/gazette/mail"
	"github.com/ByLCY/gazette/renderer"
	pdfrenderer "github.com/ByLCY/gazette/renderer/pdf"
)

func main() {
	input := flag.String("in", "examples/daily.gazette", "报告定义文件路径")
	output := flag.String("out", "output/news.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	send := flag.Bool("send", false, "生成后通过 SMTP 投递")
	flag.Parse()

	// 凭据取自 .env/环境变量，报告定义本身不携带任何机密。
	_ = godotenv.Load()

	var r renderer.Renderer = pdfrenderer.NewRenderer(filepath.Dir(*input))
	if err := run(*input, *output, *debug, *send, r); err != nil {
		log.Fatalf("生成日报失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// run 串联解析、抓取、布局、渲染与投递。
func run(inputPath, outputPath, debugPath string, send bool, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开报告定义文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	report, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析报告定义失败: %w", err)
	}

	urls := report.FeedURLs()
	if len(urls) == 0 {
		return fmt.Errorf("报告定义中缺少 feeds 段落或订阅源")
	}

	m, ok := r.(layout.Measurer)
	if !ok {
		return fmt.Errorf("renderer 未实现文本测量接口")
	}

	fetcher := feed.NewFetcher(urls, logger.New("gazette"))
	records := fetcher.Fetch(context.Background())

	data := map[string]any{
		"date":  time.Now().Format("2006-01-02"),
		"count": len(records),
	}

	result, err := layout.Build(report, records, data, layout.BuildOptions{Measurer: m})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if send {
		if err := deliver(report, data, outputPath); err != nil {
			// 投递失败不删除已生成的 PDF，便于手工重发。
			return fmt.Errorf("投递失败（PDF 保留在 %s）: %w", outputPath, err)
		}
	}
	return nil
}

// deliver 组装投递配置并发送带附件的邮件。收件人以环境变量优先。
func deliver(report *dsl.Report, data map[string]any, attachmentPath string) error {
	env, ok := report.MailEnvelope()
	if !ok {
		return fmt.Errorf("报告定义中缺少 mail 段落")
	}

	cfg, err := mail.ConfigFromEnv()
	if err != nil {
		return err
	}
	if cfg.To == "" {
		cfg.To = env.To
	}
	cfg.Subject = binding.Interpolate(env.Subject, data)
	cfg.Body = binding.Interpolate(env.Body, data)
	return mail.Send(cfg, attachmentPath)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
