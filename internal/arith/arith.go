// Package arith 提供 $((...)) 算术展开的整数求值
package arith

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc 变量取值函数，未定义的变量应返回空字符串
type LookupFunc func(name string) string

// Eval 求值一个算术表达式，返回有符号64位整数
// 表达式中的裸标识符和$name都会先替换为变量当前值（未定义按0处理）
func Eval(expr string, lookup LookupFunc) (int64, error) {
	substituted := substituteVars(expr, lookup)
	tokens, err := tokenize(substituted)
	if err != nil {
		return 0, err
	}
	p := &parser{tokens: tokens}
	result, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.tokens) {
		return 0, fmt.Errorf("算术表达式存在多余的token: %q", p.tokens[p.pos])
	}
	return result, nil
}

// substituteVars 将表达式中的变量替换为其值
// 支持$name和裸name两种写法，未定义的变量替换为0
func substituteVars(expr string, lookup LookupFunc) string {
	var out strings.Builder
	i := 0
	for i < len(expr) {
		c := expr[i]
		if c == '$' {
			i++
			continue
		}
		if isIdentStart(c) {
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			value := strings.TrimSpace(lookup(expr[i:j]))
			if value == "" {
				value = "0"
			}
			out.WriteString(value)
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

// tokenize 将表达式切分为数字和运算符token
func tokenize(expr string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%' || c == '(' || c == ')':
			tokens = append(tokens, string(c))
			i++
		default:
			return nil, fmt.Errorf("算术表达式中存在无效字符: %q", string(c))
		}
	}
	return tokens, nil
}

// parser 递归下降解析器
// 文法: expr := term (('+'|'-') term)*
//       term := factor (('*'|'/'|'%') factor)*
//       factor := '(' expr ')' | ('-'|'+') factor | 整数
type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	tok := p.peek()
	if tok != "" {
		p.pos++
	}
	return tok
}

// parseExpression 解析加减层
func (p *parser) parseExpression() (int64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != "+" && op != "-" {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

// parseTerm 解析乘除模层
func (p *parser) parseTerm() (int64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != "*" && op != "/" && op != "%" {
			return left, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		switch op {
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, fmt.Errorf("除以零")
			}
			left /= right
		case "%":
			if right == 0 {
				return 0, fmt.Errorf("模零")
			}
			left %= right
		}
	}
}

// parseFactor 解析括号、一元正负号和整数字面量
func (p *parser) parseFactor() (int64, error) {
	tok := p.next()
	switch tok {
	case "":
		return 0, fmt.Errorf("算术表达式意外结束")
	case "(":
		value, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		if p.next() != ")" {
			return 0, fmt.Errorf("算术表达式缺少右括号")
		}
		return value, nil
	case "-":
		value, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -value, nil
	case "+":
		return p.parseFactor()
	}
	value, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的算术token: %q", tok)
	}
	return value, nil
}
