package utils

import (
	"fmt"
)

func Str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func StrOr(v any, def string) string {
	s := Str(v)
	if s == "" {
		return def
	}
	return s
}
