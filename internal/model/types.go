package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList 以JSON数组形式落库的有序字符串列表
// （options / tags / review_dates 共用，兼容 sqlite 与 mysql 的 json 列）
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Contains 精确匹配；标签集合的成员判断与插入顺序无关
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
