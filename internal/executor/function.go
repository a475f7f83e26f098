// 函数表与调用机制
// 函数体按行序列存储，每次调用重新解释；位置参数调用前保存、调用后恢复，
// 其余变量修改对共享上下文持久生效
package executor

import (
	"strconv"
	"strings"

	"sandbash/internal/lexer"
)

// parseFunctionDef 识别函数定义的三种写法：
// name() { ... }、function name { ... }、function name() { ... }
func parseFunctionDef(line string) (string, bool) {
	if strings.HasPrefix(line, "function ") {
		rest := strings.TrimSpace(line[len("function "):])
		name := rest
		for i := 0; i < len(rest); i++ {
			if rest[i] == '(' || rest[i] == '{' || rest[i] == ' ' {
				name = rest[:i]
				break
			}
		}
		if isValidName(name) {
			return name, true
		}
		return "", false
	}
	idx := strings.Index(line, "()")
	if idx > 0 && isValidName(strings.TrimSpace(line[:idx])) {
		return strings.TrimSpace(line[:idx]), true
	}
	return "", false
}

func isValidName(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return false
		}
	}
	return true
}

// braceDelta 统计一行中引号外的花括号净深度变化
func braceDelta(line string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '{':
			delta++
		case c == '}':
			delta--
		}
	}
	return delta
}

// defineFunction 收集函数体并存入函数表，返回函数体结束行的下标
// 同名重复定义直接覆盖
func (e *Executor) defineFunction(name string, lines []string, i int) (int, error) {
	line := lines[i]
	braceIdx := strings.IndexByte(line, '{')

	// 单行定义：开闭花括号都在定义行上
	if braceIdx >= 0 && braceDelta(line) == 0 {
		closeIdx := strings.LastIndexByte(line, '}')
		body := splitNonEmpty(line[braceIdx+1 : closeIdx])
		e.functions[name] = body
		return i, nil
	}

	start := i
	depth := 0
	if braceIdx >= 0 {
		depth = braceDelta(line)
	} else {
		// 开花括号允许单独占一行
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "{") {
			return 0, structuralError("函数 %s 缺少函数体", name)
		}
		start = i + 1
		depth = braceDelta(lines[start])
	}
	if depth <= 0 {
		return 0, structuralError("函数 %s 缺少函数体", name)
	}

	var body []string
	for j := start + 1; j < len(lines); j++ {
		depth += braceDelta(lines[j])
		if depth <= 0 {
			e.functions[name] = body
			return j, nil
		}
		body = append(body, lines[j])
	}
	return 0, structuralError("函数 %s 缺少配对的 }", name)
}

// callFunction 调用已定义的函数
// 保存现有位置参数，绑定调用实参为1..n/#/@，函数体在同一上下文中执行，
// 无论成败都恢复先前的位置参数
func (e *Executor) callFunction(line string) error {
	line, err := e.substituteArithmetic(line)
	if err != nil {
		return err
	}
	line, err = e.substituteCommands(line)
	if err != nil {
		return err
	}

	words := lexer.SplitWords(line)
	name := words[0].Text
	args := e.expandWords(words[1:])
	body := e.functions[name]

	saved := e.savePositional()
	defer e.restorePositional(saved)

	for i, arg := range args {
		e.env[strconv.Itoa(i+1)] = arg
	}
	e.env["#"] = strconv.Itoa(len(args))
	e.env["@"] = strings.Join(args, " ")

	return e.executeLines(body)
}

// savePositional 摘下当前所有位置参数绑定
func (e *Executor) savePositional() map[string]string {
	saved := make(map[string]string)
	for key, value := range e.env {
		if key == "#" || key == "@" || isNumericKey(key) {
			saved[key] = value
			delete(e.env, key)
		}
	}
	return saved
}

// restorePositional 清除函数调用绑定的位置参数并恢复先前的
func (e *Executor) restorePositional(saved map[string]string) {
	for key := range e.env {
		if key == "#" || key == "@" || isNumericKey(key) {
			delete(e.env, key)
		}
	}
	for key, value := range saved {
		e.env[key] = value
	}
}

func isNumericKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}
