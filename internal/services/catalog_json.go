package services

import (
	"bytes"
	"encoding/json"
)

var emptyJSONList = json.RawMessage(`[]`)

// normalizeJSONList принимает массив или строку с JSON-массивом (так шлёт multipart-форма).
// Всё остальное превращается в пустой список.
func normalizeJSONList(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return emptyJSONList
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 {
			return nil
		}
	}
	if raw[0] == '[' && json.Valid(raw) {
		return raw
	}
	return emptyJSONList
}
