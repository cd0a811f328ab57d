package pdfrenderer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/gazette/layout"
	"github.com/ByLCY/gazette/renderer"
)

// Renderer 基于 codeberg.org/go-pdf/fpdf 输出 PDF，并同时充当布局阶段的
// 文本测量后端。测量使用一个独立的内部文档，与渲染文档互不干扰，
// 因此多个独立的文档生成流程可以共享同一个 Renderer。
type Renderer struct {
	baseDir string

	// 测量文档及其字体注册表；fpdf 实例非并发安全，统一由 fontMu 保护。
	fontMu     sync.Mutex
	measureDoc *fpdf.Fpdf
	measureTr  func(string) string
	registered map[string]bool
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// NewRenderer 创建一个以 baseDir 为字体文件解析根目录的 PDF 渲染器。
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:    baseDir,
		registered: map[string]bool{},
	}
}

// Render 将布局结果渲染为 PDF 字节切片。
// 页面、文本与链接严格按布局结果中的顺序发出绘制调用。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	first := result.Pages[0]
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	tr := doc.UnicodeTranslatorFromDescriptor("")

	if err := registerFonts(doc, result.Fonts, r.baseDir); err != nil {
		return nil, err
	}
	applyMeta(doc, result.Meta)

	for _, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		if err := drawPage(doc, tr, page, result.Fonts); err != nil {
			return nil, err
		}
	}

	if doc.Err() {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// TextWidth 实现 layout.Measurer，返回文本在给定字体与字号下的宽度（pt）。
// 测量只依赖 (text, font, size)，是确定性的纯函数。
func (r *Renderer) TextWidth(text string, font layout.FontRes, size float64) (float64, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.measureDoc == nil {
		r.measureDoc = fpdf.New("P", "pt", "Letter", "")
		r.measureTr = r.measureDoc.UnicodeTranslatorFromDescriptor("")
	}
	doc := r.measureDoc

	key := fontCacheKey(font)
	if !font.IsBuiltin && !r.registered[key] {
		data, err := loadFontBytes(font, r.baseDir)
		if err != nil {
			return 0, err
		}
		doc.AddUTF8FontFromBytes(font.Name, styleString(font), data)
		r.registered[key] = true
	}

	doc.SetFont(familyName(font), styleString(font), size)
	if doc.Err() {
		return 0, fmt.Errorf("测量字体 %s 失败: %w", font.Name, doc.Error())
	}
	if font.IsBuiltin {
		text = r.measureTr(text)
	}
	return doc.GetStringWidth(text), nil
}

func drawPage(doc *fpdf.Fpdf, tr func(string) string, page layout.Page, fonts layout.FontSet) error {
	for _, tb := range page.Texts {
		font, ok := fonts[tb.Font]
		if !ok {
			return fmt.Errorf("字体 %s 未定义", tb.Font)
		}
		doc.SetFont(familyName(font), styleString(font), tb.FontSize)
		for i, line := range tb.Lines {
			if font.IsBuiltin {
				line = tr(line)
			}
			// 布局坐标以页面底边为原点，fpdf 以顶边为原点，此处换算。
			y := tb.Y - float64(i)*tb.LineHeight
			doc.Text(tb.X, page.Height-y, line)
		}
	}
	for _, lb := range page.Links {
		doc.LinkString(lb.X, page.Height-(lb.Y+lb.H), lb.W, lb.H, lb.URL)
	}
	if doc.Err() {
		return doc.Error()
	}
	return nil
}

func registerFonts(doc *fpdf.Fpdf, fonts layout.FontSet, baseDir string) error {
	for _, font := range fonts {
		if font.IsBuiltin {
			continue
		}
		data, err := loadFontBytes(font, baseDir)
		if err != nil {
			return err
		}
		doc.AddUTF8FontFromBytes(font.Name, styleString(font), data)
		if doc.Err() {
			return fmt.Errorf("加载字体 %s 失败: %w", font.Name, doc.Error())
		}
	}
	return nil
}

func loadFontBytes(font layout.FontRes, baseDir string) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	path := font.Src
	if baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", font.Src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", font.Src, err)
	}
	return data, nil
}

func applyMeta(doc *fpdf.Fpdf, meta layout.ReportMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

// familyName 返回 fpdf 使用的字体族名。内建字体取 Base 去掉样式后缀
// （Helvetica-Bold → Helvetica，样式并入 styleString），文件字体用资源名。
func familyName(font layout.FontRes) string {
	if font.IsBuiltin {
		base := font.Base
		if base == "" {
			base = "Helvetica"
		}
		if i := strings.IndexByte(base, '-'); i > 0 {
			base = base[:i]
		}
		return base
	}
	if font.Name != "" {
		return font.Name
	}
	return "Helvetica"
}

// styleString 将样式描述折算为 fpdf 的样式串（""/"B"/"I"/"BI"）。
// 内建字体名中的 -Bold/-Oblique 等后缀同样计入。
func styleString(font layout.FontRes) string {
	s := strings.ToLower(font.Style)
	if font.IsBuiltin {
		if i := strings.IndexByte(font.Base, '-'); i > 0 {
			s += strings.ToLower(font.Base[i+1:])
		}
	}
	out := ""
	if strings.Contains(s, "bold") {
		out += "B"
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		out += "I"
	}
	return out
}

func fontCacheKey(font layout.FontRes) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
