package layout

import "strings"

// Wrap 使用贪心算法将文本按空白分词后折行，保证每行测量宽度不超过 maxWidth。
// 约定：
//   - 候选行按 line+word+" " 测量（含尾随空格），与收尾时的去空格配合保持稳定；
//   - 单个超宽的词不在词内拆分，独占一行（允许溢出）；
//   - 空行不输出：空串或纯空白输入返回 nil。
func Wrap(text string, font FontRes, size, maxWidth float64, m Measurer) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := line + word + " "
		width, err := m.TextWidth(candidate, font, size)
		if err != nil {
			return nil, err
		}
		if width <= maxWidth {
			line = candidate
			continue
		}
		if trimmed := strings.TrimRight(line, " "); trimmed != "" {
			lines = append(lines, trimmed)
		}
		line = word + " "
	}
	if trimmed := strings.TrimRight(line, " "); trimmed != "" {
		lines = append(lines, trimmed)
	}
	return lines, nil
}
