package utils

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// ErrorBody 是所有错误响应的 JSON 结构。
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondJSON 先编码再写出，编码失败时返回 500 而不是半截响应。
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		log.Error("failed to encode response", "err", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug("failed to write response", "err", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}
