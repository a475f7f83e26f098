package vfs

import (
	"path"
	"strings"
)

// NormalizePath 规范化沙箱内路径
// 沙箱路径永远使用正斜杠，不涉及宿主机的分隔符差异
func NormalizePath(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// IsAbsolute 判断是否为绝对路径
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "/")
}

// JoinPath 连接路径
func JoinPath(elem ...string) string {
	return path.Join(elem...)
}

// resolve 将路径解析为以cwd为基准的绝对路径
func resolve(cwd, p string) string {
	p = NormalizePath(p)
	if IsAbsolute(p) {
		return p
	}
	return JoinPath(cwd, p)
}

// splitPath 将绝对路径切分为组件序列，根路径返回空序列
func splitPath(abs string) []string {
	abs = strings.Trim(abs, "/")
	if abs == "" {
		return nil
	}
	return strings.Split(abs, "/")
}
