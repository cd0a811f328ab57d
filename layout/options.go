package layout

// BuildOptions 配置布局阶段所需的依赖，例如文本测量后端。
type BuildOptions struct {
	Measurer Measurer
}

// Measurer 负责测量给定字体与字号下一段文本的渲染宽度（pt）。
// 实现必须是纯函数：同一 (text, font, size) 始终返回同一宽度，
// 且更长的字符串在同一字体字号下不会测得更窄。
type Measurer interface {
	TextWidth(text string, font FontRes, size float64) (float64, error)
}
