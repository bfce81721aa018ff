package main

import (
	"encoding/json"
	"strconv"
)

func strconv64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
