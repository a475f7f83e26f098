// 替换重写：$((expr))和$(command)的就地展开
package executor

import (
	"strconv"
	"strings"

	"sandbash/internal/arith"
	"sandbash/internal/lexer"
	"sandbash/internal/stdio"
)

// evalArith 用当前环境求值一个算术表达式
func (e *Executor) evalArith(expr string) (int64, error) {
	value, err := arith.Eval(expr, e.lookupVar)
	if err != nil {
		return 0, arithmeticError(expr, err)
	}
	return value, nil
}

// executeArithCommand 执行独立的算术命令 ((expr))
// 按bash约定：结果非零时退出码为0，为零时退出码为1
func (e *Executor) executeArithCommand(line string) error {
	value, err := e.evalArithStatement(line[2 : len(line)-2])
	if err != nil {
		return err
	}
	if value != 0 {
		e.exitCode = 0
	} else {
		e.exitCode = 1
	}
	return nil
}

// evalArithStatement 求值一个算术语句
// 支持 name = expr 和 name += / -= / *= / /= / %= 复合赋值，其余走纯表达式求值
func (e *Executor) evalArithStatement(expr string) (int64, error) {
	expr = strings.TrimSpace(expr)
	name := leadingName(expr)
	if isValidName(name) {
		rest := strings.TrimSpace(expr[len(name):])
		rhs := ""
		switch {
		case strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "=="):
			rhs = rest[1:]
		case len(rest) >= 2 && rest[1] == '=' && strings.IndexByte("+-*/%", rest[0]) >= 0:
			rhs = name + " " + string(rest[0]) + " (" + rest[2:] + ")"
		}
		if rhs != "" {
			value, err := e.evalArith(rhs)
			if err != nil {
				return 0, err
			}
			e.env[name] = strconv.FormatInt(value, 10)
			return value, nil
		}
	}
	return e.evalArith(expr)
}

// substituteArithmetic 重写一行中的所有$((expr))，单引号内不处理
func (e *Executor) substituteArithmetic(line string) (string, error) {
	for {
		start := indexUnquoted(line, "$((")
		if start < 0 {
			return line, nil
		}
		end := matchingParens(line, start+1)
		if end < 0 {
			return "", structuralError("$(( 缺少配对的 ))")
		}
		expr := line[start+3 : end-1]
		value, err := e.evalArith(expr)
		if err != nil {
			return "", err
		}
		line = line[:start] + strconv.FormatInt(value, 10) + line[end+1:]
	}
}

// substituteCommands 重写一行中的所有$(command)，单引号内不处理
// 嵌套解释器持有env/数组/函数表的值拷贝，其stdout去掉尾部换行后替换原文；
// 内部执行失败按空输出处理，不向外传播
func (e *Executor) substituteCommands(line string) (string, error) {
	for {
		start := indexUnquoted(line, "$(")
		if start < 0 {
			return line, nil
		}
		end := matchingParen(line, start+1)
		if end < 0 {
			return "", structuralError("$( 缺少配对的 )")
		}
		script := line[start+2 : end]
		output := e.captureSubstitution(script)
		line = line[:start] + output + line[end+1:]
	}
}

// captureSubstitution 在值拷贝上下文中执行替换脚本并取其stdout
func (e *Executor) captureSubstitution(script string) string {
	child := &Executor{
		env:       cloneStringMap(e.env),
		arrays:    cloneArrayMap(e.arrays),
		functions: cloneFunctionMap(e.functions),
		fs:        e.fs,
		streams:   stdio.New(),
	}
	cwd := e.fs.Getwd()
	defer e.fs.Chdir(cwd)

	statements := lexer.SplitStatements(script)
	if err := child.executeLines(scriptLines(strings.Join(statements, "\n"))); err != nil {
		return ""
	}
	return strings.TrimRight(child.streams.Stdout(), "\n")
}

// indexUnquoted 查找单引号之外的子串起始位置
func indexUnquoted(line, sub string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'':
			quote = c
		default:
			if strings.HasPrefix(line[i:], sub) {
				// $(( 优先于 $(，避免把算术展开认成命令替换
				if sub == "$(" && strings.HasPrefix(line[i:], "$((") {
					continue
				}
				return i
			}
		}
	}
	return -1
}

// matchingParens 找到$((的配对))，open指向第一个(
// 返回第二个)的下标（即))的末尾）
func matchingParens(line string, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				// 需要连续的))收尾
				if i > open && line[i-1] == ')' {
					return i
				}
				return -1
			}
		}
	}
	return -1
}

// matchingParen 找到$(的配对)，open指向(
func matchingParen(line string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
