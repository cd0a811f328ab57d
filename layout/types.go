package layout

// 该文件定义布局结果与字体资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与长度单位均为 pt，纵坐标以页面底边为原点（与最终 PDF 的习惯一致）。

// Result 保存布局后的页面、字体与文档元信息。
// Pages 的先后顺序即绘制顺序；相邻两页之间隐含一次换页指令。
type Result struct {
	Pages []Page     `json:"pages"`
	Fonts FontSet    `json:"fonts"`
	Meta  ReportMeta `json:"meta"`
}

// FontSet 记录解析出的字体定义，键为字体名。
type FontSet map[string]FontRes

// FontRes 描述字体资源。src 可以是文件路径，或 builtin:* 形式的 PDF 内建字体
// （Helvetica、Times-Roman、Courier 等 base-14 字体，度量由渲染器内置）。
type FontRes struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style"`     // regular/bold/italic
	Base      string `json:"base"`      // builtin 模式下记录真实字体名
	IsBuiltin bool   `json:"isBuiltin"` // 是否为内建字体
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
// Texts 与 Links 各自保持追加顺序，渲染器按此顺序发出绘制调用。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Margin Margin    `json:"margin"`
	Texts  []TextBox `json:"texts"`
	Links  []LinkBox `json:"links,omitempty"`
}

// Margin 以 pt 为单位。Bottom 兼作接近页底的换页阈值。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块（若干折行）。
// Y 为首行基线的纵坐标；第 i 行绘制在 Y - i*LineHeight 处。
type TextBox struct {
	Content    string   `json:"content"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	LineHeight float64  `json:"lineHeight"`
	Font       string   `json:"font"`
	FontSize   float64  `json:"fontSize"`
	Lines      []string `json:"lines"`
	Height     float64  `json:"height"`
}

// LinkBox 表示一个绑定 URL 的可点击矩形区域。
// X/Y 为矩形左下角坐标，URL 原样写入，不做任何校验或规范化。
type LinkBox struct {
	URL string  `json:"url"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
}

// ReportMeta 保存 PDF 元信息。
type ReportMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
