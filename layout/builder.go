package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/gazette/binding"
	"github.com/ByLCY/gazette/dsl"
	"github.com/ByLCY/gazette/feed"
)

// 文章各块的字号与行高（pt），与生成的日报版式一一对应。
const (
	docTitleSize    = 16.0
	docTitleGap     = 30.0
	titleSize       = 12.0
	titleLineHeight = 14.0
	bodySize        = 10.0
	bodyLineHeight  = 12.0
	linkLabel       = "Read more"
	linkBoxWidth    = 50.0
	linkBoxHeight   = 12.0
	linkAdvance     = 15.0
	articleGap      = 20.0

	headlineFont = "Headline"
	bodyFont     = "Body"
)

// 页面几何默认值：letter 纵向，左 50 / 右 20 / 上 50 / 下 50，
// 接近页底的换页阈值 50pt。
var defaultMargin = Margin{Top: 50, Right: 20, Bottom: 50, Left: 50}

const defaultThreshold = 50.0

// pageGeom 是解析 page 段落后的结果。
type pageGeom struct {
	width     float64
	height    float64
	margin    Margin
	threshold float64
}

// startY 返回每页的起始写入位置（页顶常量）。
func (g pageGeom) startY() float64 { return g.height - g.margin.Top }

// textWidth 返回正文可用宽度。
func (g pageGeom) textWidth() float64 { return g.width - g.margin.Left - g.margin.Right }

// Build 根据报告定义与抓取到的新闻记录生成整份文档的布局结果。
// records 严格按输入顺序排版，不做排序、过滤或去重；data 用于 ${...} 插值。
func Build(report *dsl.Report, records []feed.Record, data any, opts BuildOptions) (*Result, error) {
	if report == nil {
		return nil, fmt.Errorf("报告定义为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}

	fonts := collectFonts(report)
	meta := collectMeta(report)
	if data != nil {
		meta.Title = binding.Interpolate(meta.Title, data)
		meta.Subject = binding.Interpolate(meta.Subject, data)
	}

	geom, err := resolvePage(report)
	if err != nil {
		return nil, err
	}

	collector := newPageCollector(geom.width, geom.height, geom.margin)
	cursor := newCursor(geom.startY(), collector)

	// 文档标题只在最顶部出现一次，不参与记录计数，也不折行。
	if _, err := resolveFont(headlineFont, fonts); err != nil {
		return nil, err
	}
	collector.curr().appendText(TextBox{
		Content:    meta.Title,
		X:          geom.margin.Left,
		Y:          cursor.Y(),
		LineHeight: docTitleGap,
		Font:       headlineFont,
		FontSize:   docTitleSize,
		Lines:      []string{meta.Title},
		Height:     docTitleGap,
	})
	cursor.advance(docTitleGap)

	// 换页检查只发生在记录边界：一条记录内部的各块不会被再次检查。
	for _, rec := range records {
		if cursor.needsBreak(geom.threshold) {
			cursor.breakPage()
		}
		if err := renderArticle(rec, cursor, geom, fonts, opts.Measurer); err != nil {
			return nil, err
		}
	}

	return &Result{
		Pages: collector.pages(),
		Fonts: fonts,
		Meta:  meta,
	}, nil
}

// renderArticle 按固定块序排版一条新闻记录：标题、来源、发布时间、链接、摘要。
// 排版错误（例如无法测量的字体）不在此处恢复，直接向上传播。
func renderArticle(rec feed.Record, cursor *Cursor, geom pageGeom, fonts FontSet, m Measurer) error {
	if err := writeBlock("Title: "+rec.Title, headlineFont, titleSize, titleLineHeight, cursor, geom, fonts, m); err != nil {
		return err
	}
	if err := writeBlock("Source: "+rec.Source, bodyFont, bodySize, bodyLineHeight, cursor, geom, fonts, m); err != nil {
		return err
	}
	if err := writeBlock("Published: "+rec.Published, bodyFont, bodySize, bodyLineHeight, cursor, geom, fonts, m); err != nil {
		return err
	}

	// "Read more" 标签是固定短文本，不折行；链接矩形锚定在当前光标处，
	// URL 原样绑定，不做校验。
	acc := cursor.collector.curr()
	acc.appendText(TextBox{
		Content:    linkLabel,
		X:          geom.margin.Left,
		Y:          cursor.Y(),
		LineHeight: bodyLineHeight,
		Font:       bodyFont,
		FontSize:   bodySize,
		Lines:      []string{linkLabel},
		Height:     bodyLineHeight,
	})
	acc.appendLink(LinkBox{
		URL: rec.Link,
		X:   geom.margin.Left,
		Y:   cursor.Y() - 2,
		W:   linkBoxWidth,
		H:   linkBoxHeight,
	})
	cursor.advance(linkAdvance)

	if err := writeBlock("Summary: "+rec.Summary, bodyFont, bodySize, bodyLineHeight, cursor, geom, fonts, m); err != nil {
		return err
	}

	cursor.advance(articleGap)
	return nil
}

// writeBlock 折行一个文本块并推进光标。空摘要等情况下前缀自身仍构成一行。
func writeBlock(text, fontName string, size, lineHeight float64, cursor *Cursor, geom pageGeom, fonts FontSet, m Measurer) error {
	font, err := resolveFont(fontName, fonts)
	if err != nil {
		return err
	}
	lines, err := Wrap(text, font, size, geom.textWidth(), m)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	height := lineHeight * float64(len(lines))
	cursor.collector.curr().appendText(TextBox{
		Content:    text,
		X:          geom.margin.Left,
		Y:          cursor.Y(),
		LineHeight: lineHeight,
		Font:       fontName,
		FontSize:   size,
		Lines:      lines,
		Height:     height,
	})
	cursor.advance(height)
	return nil
}

func collectFonts(report *dsl.Report) FontSet {
	fonts := FontSet{}
	for _, section := range report.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "font" {
				continue
			}
			font := parseFontCommand(stmt.Command)
			if font.Name != "" {
				fonts[font.Name] = font
			}
		}
	}

	// 未声明时回退到 PDF 内建的 Helvetica 常规/粗体。
	if _, ok := fonts[bodyFont]; !ok {
		fonts[bodyFont] = FontRes{Name: bodyFont, Src: "builtin:Helvetica", Base: "Helvetica", IsBuiltin: true}
	}
	if _, ok := fonts[headlineFont]; !ok {
		fonts[headlineFont] = FontRes{Name: headlineFont, Src: "builtin:Helvetica", Base: "Helvetica", Style: "bold", IsBuiltin: true}
	}
	return fonts
}

func parseFontCommand(cmd *dsl.Command) FontRes {
	if len(cmd.Args) == 0 {
		return FontRes{}
	}
	font := FontRes{
		Name: cmd.Args[0].Value,
		Base: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil || stmt.Assignment.Value == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			if stmt.Assignment.Value.String != nil {
				font.Src = string(*stmt.Assignment.Value.String)
				if strings.HasPrefix(font.Src, "builtin:") {
					font.IsBuiltin = true
					font.Base = strings.TrimPrefix(font.Src, "builtin:")
					if font.Base == "" {
						font.Base = "Helvetica"
					}
				}
			}
		case "style":
			if stmt.Assignment.Value.String != nil {
				font.Style = string(*stmt.Assignment.Value.String)
			}
		}
	}
	return font
}

func resolveFont(name string, fonts FontSet) (FontRes, error) {
	if font, ok := fonts[name]; ok {
		return font, nil
	}
	if font, ok := fonts[bodyFont]; ok {
		return font, nil
	}
	return FontRes{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

func collectMeta(report *dsl.Report) ReportMeta {
	meta := ReportMeta{
		Title:   "News Articles",
		Creator: "gazette",
	}
	for _, section := range report.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func resolvePage(report *dsl.Report) (pageGeom, error) {
	geom := pageGeom{
		width:     pagePresets["LETTER"][0],
		height:    pagePresets["LETTER"][1],
		margin:    defaultMargin,
		threshold: defaultThreshold,
	}

	var section *dsl.PageSection
	for _, s := range report.Sections {
		if s.Page != nil {
			section = s.Page
			break
		}
	}
	if section == nil {
		return geom, nil
	}

	base, ok := pagePresets[strings.ToUpper(section.Spec.Size)]
	if !ok {
		return pageGeom{}, fmt.Errorf("暂不支持的纸张尺寸：%s", section.Spec.Size)
	}
	geom.width, geom.height = base[0], base[1]
	for _, token := range section.Spec.Params {
		if token.Value == "landscape" {
			geom.width, geom.height = geom.height, geom.width
		}
	}
	geom.margin = resolveMargin(section.Spec.Params)

	if section.Block != nil {
		for _, stmt := range section.Block.Statements {
			if stmt.Assignment == nil || stmt.Assignment.Key != "threshold" {
				continue
			}
			if v := ParseLength(valueToString(stmt.Assignment.Value)); v > 0 {
				geom.threshold = v
			}
		}
	}
	return geom, nil
}

// resolveMargin 解析 page 段落头部的 margin 参数，沿用 CSS 的 1/2/3/4 值语义：
// 1 个值四边相同；2 个值上下、左右；3 个值上、右、下（左为 0）；4 个值上右下左。
func resolveMargin(params []*dsl.Lexeme) Margin {
	margin := defaultMargin
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		vals := []float64{}
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			if !isLengthLiteral(params[j].Value) {
				break
			}
			vals = append(vals, ParseLength(params[j].Value))
		}
		switch len(vals) {
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: 0}
		case 4:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
