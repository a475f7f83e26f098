// 参数展开：解析$x和${...}的各种操作符
package executor

import (
	"strconv"
	"strings"

	"sandbash/internal/glob"
)

// lookupVar 查询变量值，未定义返回空串
// 标量名查不到时回退到同名数组的首元素
func (e *Executor) lookupVar(name string) string {
	if value, ok := e.env[name]; ok {
		return value
	}
	if arr, ok := e.arrays[name]; ok && len(arr) > 0 {
		return arr[0]
	}
	return ""
}

// expandString 展开一段文本中的所有$x/${...}出现
func (e *Executor) expandString(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '$' || i+1 >= len(s) {
			out.WriteByte(c)
			i++
			continue
		}
		next := s[i+1]
		switch {
		case next == '{':
			end := matchingBrace(s, i+1)
			if end < 0 {
				out.WriteByte(c)
				i++
				continue
			}
			out.WriteString(e.expandParam(s[i+2 : end]))
			i = end + 1
		case next == '?':
			out.WriteString(strconv.Itoa(e.exitCode))
			i += 2
		case next == '#' || next == '@' || next == '*':
			out.WriteString(e.lookupVar(string(next)))
			i += 2
		case isNameChar(next):
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			out.WriteString(e.lookupVar(s[i+1 : j]))
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// matchingBrace 从开花括号下标起找到配对的闭花括号
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// leadingName 取内容开头的变量名部分
func leadingName(s string) string {
	i := 0
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return s[:i]
}

// expandParam 解析一个${...}的内容（不含花括号）
// 无法识别的操作符内容回退为按变量名查询
func (e *Executor) expandParam(content string) string {
	// ${#name}、${#arr[@]} 长度形式
	if strings.HasPrefix(content, "#") && len(content) > 1 {
		return e.expandLength(content[1:])
	}

	name := leadingName(content)
	if name == "" {
		return e.lookupVar(content)
	}
	rest := content[len(name):]
	if rest == "" {
		return e.lookupVar(name)
	}

	// ${arr[i]}、${arr[@]}、${arr[*]} 数组访问
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		return e.expandArrayAccess(name, rest[1:len(rest)-1])
	}

	value := e.lookupVar(name)

	switch {
	case strings.HasPrefix(rest, ":-"):
		if value == "" {
			return e.expandString(rest[2:])
		}
		return value
	case strings.HasPrefix(rest, ":="):
		if value == "" {
			value = e.expandString(rest[2:])
			e.env[name] = value
		}
		return value
	case strings.HasPrefix(rest, ":+"):
		if value != "" {
			return e.expandString(rest[2:])
		}
		return ""
	case strings.HasPrefix(rest, ":?"):
		// 简化语义：未设置时以消息文本作为展开值，不中止脚本
		if value == "" {
			msg := rest[2:]
			if msg == "" {
				msg = name + ": parameter null or not set"
			}
			return e.expandString(msg)
		}
		return value
	case strings.HasPrefix(rest, "##"):
		return trimPrefix(value, e.expandString(rest[2:]), true)
	case strings.HasPrefix(rest, "#"):
		return trimPrefix(value, e.expandString(rest[1:]), false)
	case strings.HasPrefix(rest, "%%"):
		return trimSuffix(value, e.expandString(rest[2:]), true)
	case strings.HasPrefix(rest, "%"):
		return trimSuffix(value, e.expandString(rest[1:]), false)
	case strings.HasPrefix(rest, "//"):
		pattern, repl := splitPatternRepl(rest[2:])
		return replaceMatches(value, e.expandString(pattern), e.expandString(repl), true)
	case strings.HasPrefix(rest, "/"):
		pattern, repl := splitPatternRepl(rest[1:])
		return replaceMatches(value, e.expandString(pattern), e.expandString(repl), false)
	case strings.HasPrefix(rest, ":"):
		return e.expandSubstring(value, rest[1:])
	}

	return e.lookupVar(content)
}

// expandLength 处理${#...}：数组元素个数或字符串长度
func (e *Executor) expandLength(spec string) string {
	if strings.HasSuffix(spec, "[@]") || strings.HasSuffix(spec, "[*]") {
		name := spec[:len(spec)-3]
		return strconv.Itoa(len(e.arrays[name]))
	}
	return strconv.Itoa(len(e.lookupVar(spec)))
}

// expandArrayAccess 处理数组下标访问，越界读返回空串
func (e *Executor) expandArrayAccess(name, idx string) string {
	arr := e.arrays[name]
	if idx == "@" || idx == "*" {
		return strings.Join(arr, " ")
	}
	n, err := e.evalArith(idx)
	if err != nil || n < 0 || n >= int64(len(arr)) {
		return ""
	}
	return arr[n]
}

// expandSubstring 处理${name:off}和${name:off:len}
func (e *Executor) expandSubstring(value, spec string) string {
	parts := strings.SplitN(spec, ":", 2)
	offset, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return value
	}
	if offset < 0 {
		offset = len(value) + offset
	}
	if offset < 0 || offset >= len(value) {
		return ""
	}
	rest := value[offset:]
	if len(parts) == 1 {
		return rest
	}
	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || length < 0 {
		return rest
	}
	if length > len(rest) {
		length = len(rest)
	}
	return rest[:length]
}

// splitPatternRepl 切分${name/p/r}中的模式和替换文本
func splitPatternRepl(s string) (string, string) {
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// trimPrefix 删除glob匹配的前缀，longest选择最长匹配
func trimPrefix(value, pattern string, longest bool) string {
	if longest {
		for i := len(value); i >= 0; i-- {
			if glob.Match(pattern, value[:i]) {
				return value[i:]
			}
		}
		return value
	}
	for i := 0; i <= len(value); i++ {
		if glob.Match(pattern, value[:i]) {
			return value[i:]
		}
	}
	return value
}

// trimSuffix 删除glob匹配的后缀，longest选择最长匹配
func trimSuffix(value, pattern string, longest bool) string {
	if longest {
		for i := 0; i <= len(value); i++ {
			if glob.Match(pattern, value[i:]) {
				return value[:i]
			}
		}
		return value
	}
	for i := len(value); i >= 0; i-- {
		if glob.Match(pattern, value[i:]) {
			return value[:i]
		}
	}
	return value
}

// replaceMatches 处理${name/p/r}和${name//p/r}
// 字面量模式走快速路径，带通配符的模式在每个位置取最长匹配
func replaceMatches(value, pattern, repl string, all bool) string {
	if pattern == "" {
		return value
	}
	if !strings.ContainsAny(pattern, "*?[") {
		if all {
			return strings.ReplaceAll(value, pattern, repl)
		}
		return strings.Replace(value, pattern, repl, 1)
	}

	var out strings.Builder
	i := 0
	replaced := false
	for i < len(value) {
		if replaced && !all {
			out.WriteString(value[i:])
			break
		}
		matched := false
		for j := len(value); j > i; j-- {
			if glob.Match(pattern, value[i:j]) {
				out.WriteString(repl)
				i = j
				matched = true
				replaced = true
				break
			}
		}
		if !matched {
			out.WriteByte(value[i])
			i++
		}
	}
	return out.String()
}
