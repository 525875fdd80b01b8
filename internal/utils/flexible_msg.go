package utils

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FlexibleMsg 支持 string / object / array 任意结构的 message, PG 的 422 会返回字段错误对象
type FlexibleMsg struct {
	Text string
}

func (m *FlexibleMsg) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Text = s
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			switch val := obj[k].(type) {
			case string:
				parts = append(parts, fmt.Sprintf("%s: %s", k, val))
			case float64:
				parts = append(parts, fmt.Sprintf("%s: %v", k, val))
			default:
				b, _ := json.Marshal(val)
				parts = append(parts, fmt.Sprintf("%s: %s", k, string(b)))
			}
		}
		m.Text = strings.Join(parts, "; ")
		return nil
	}

	if string(data) == "null" {
		m.Text = ""
		return nil
	}
	m.Text = string(data)
	return nil
}

func (m FlexibleMsg) String() string { return m.Text }
