package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/paiban/rxsched/internal/handler"
)

var sharedValidator = validator.New()

// readRequestFile 从路径或标准输入（"-"）读取 JSON 请求体
func readRequestFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadGenerateRequest 读取并校验一次 generate/adjust 请求
func loadGenerateRequest(path string) (handler.GenerateRequest, error) {
	var req handler.GenerateRequest
	raw, err := readRequestFile(path)
	if err != nil {
		return req, fmt.Errorf("读取请求文件失败: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("解析请求文件失败: %w", err)
	}
	if err := sharedValidator.Struct(req); err != nil {
		return req, fmt.Errorf("请求校验失败: %w", err)
	}
	return req, nil
}

// loadValidateRequest 读取并校验一次 validate 请求
func loadValidateRequest(path string) (handler.ValidateRequest, error) {
	var req handler.ValidateRequest
	raw, err := readRequestFile(path)
	if err != nil {
		return req, fmt.Errorf("读取请求文件失败: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("解析请求文件失败: %w", err)
	}
	if err := sharedValidator.Struct(req); err != nil {
		return req, fmt.Errorf("请求校验失败: %w", err)
	}
	return req, nil
}
