package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 把完整的布局结果（页面、文本块、链接矩形与字体表）
// 序列化成缩进 JSON 写入 path，用于排查坐标与折行问题。res 为 nil 时什么都不写。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
