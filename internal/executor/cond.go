// 条件求值：if/while的条件和[ ... ]测试表达式
package executor

import (
	"strconv"
	"strings"

	"sandbash/internal/lexer"
)

// evalCondition 求值一个条件：true/false字面量短路，[ ... ]走测试求值，
// 其余按命令执行并以退出码0为真
func (e *Executor) evalCondition(cond string) (bool, error) {
	cond = strings.TrimSpace(cond)
	cond, err := e.substituteArithmetic(cond)
	if err != nil {
		return false, err
	}
	cond, err = e.substituteCommands(cond)
	if err != nil {
		return false, err
	}
	cond = strings.TrimSpace(cond)

	switch cond {
	case "true", ":":
		e.exitCode = 0
		return true, nil
	case "false":
		e.exitCode = 1
		return false, nil
	}

	// 算术条件((expr))：非零为真
	if strings.HasPrefix(cond, "((") && strings.HasSuffix(cond, "))") {
		value, err := e.evalArithStatement(cond[2 : len(cond)-2])
		if err != nil {
			return false, err
		}
		if value != 0 {
			e.exitCode = 0
			return true, nil
		}
		e.exitCode = 1
		return false, nil
	}

	if strings.HasPrefix(cond, "[ ") && strings.HasSuffix(cond, " ]") {
		ok, err := e.evalTestCondition(strings.TrimSpace(cond[1 : len(cond)-1]))
		if err != nil {
			return false, err
		}
		if ok {
			e.exitCode = 0
		} else {
			e.exitCode = 1
		}
		return ok, nil
	}

	// 普通命令：经分派循环执行以支持函数调用和管道
	if err := e.executeLines([]string{cond}); err != nil {
		return false, err
	}
	return e.exitCode == 0, nil
}

// atoiOr0 整数比较的宽松解析，非数字按0处理
func atoiOr0(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// evalTestCondition 求值去掉方括号后的测试表达式
// 三元形式 L OP R 支持整数比较和字符串相等；二元形式支持-n/-z
func (e *Executor) evalTestCondition(content string) (bool, error) {
	tokens := e.expandWords(lexer.SplitWords(content))
	switch len(tokens) {
	case 3:
		left, op, right := tokens[0], tokens[1], tokens[2]
		switch op {
		case "-eq":
			return atoiOr0(left) == atoiOr0(right), nil
		case "-ne":
			return atoiOr0(left) != atoiOr0(right), nil
		case "-gt":
			return atoiOr0(left) > atoiOr0(right), nil
		case "-ge":
			return atoiOr0(left) >= atoiOr0(right), nil
		case "-lt":
			return atoiOr0(left) < atoiOr0(right), nil
		case "-le":
			return atoiOr0(left) <= atoiOr0(right), nil
		case "=", "==":
			return left == right, nil
		case "!=":
			return left != right, nil
		}
		return false, conditionError("不支持的操作符: %s", op)
	case 2:
		op, arg := tokens[0], tokens[1]
		switch op {
		case "-n":
			return arg != "", nil
		case "-z":
			return arg == "", nil
		}
		return false, conditionError("不支持的操作符: %s", op)
	}
	return false, conditionError("无法解析的测试表达式: [ %s ]", content)
}
