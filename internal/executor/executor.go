// Package executor 实现沙箱shell解释器核心
// 按扁平行序列依次分派语句，控制流块自行定位终结符并递归回到分派循环；
// 所有IO走捕获流，所有文件操作走虚拟文件系统，从不触碰宿主机
package executor

import (
	"regexp"
	"strconv"
	"strings"

	"sandbash/internal/builtin"
	"sandbash/internal/lexer"
	"sandbash/internal/stdio"
	"sandbash/internal/vfs"
)

// Result 一次执行的结果
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor 执行器，独占持有一份执行上下文
type Executor struct {
	env       map[string]string   // 变量表（含位置参数1..n、#、@）
	arrays    map[string][]string // 数组表
	functions map[string][]string // 函数表：函数名→函数体行序列
	fs        *vfs.FS
	streams   *stdio.Streams
	exitCode  int
	exitFlag  bool // exit已请求，停止分派循环
}

// New 创建新的执行器，带空环境和独立的虚拟文件系统
func New() *Executor {
	return &Executor{
		env:       make(map[string]string),
		arrays:    make(map[string][]string),
		functions: make(map[string][]string),
		fs:        vfs.New(),
		streams:   stdio.New(),
	}
}

// SetEnv 设置变量
func (e *Executor) SetEnv(key, value string) {
	e.env[key] = value
}

// GetEnv 获取变量
func (e *Executor) GetEnv(key string) (string, bool) {
	value, ok := e.env[key]
	return value, ok
}

// Filesystem 返回执行器持有的虚拟文件系统
func (e *Executor) Filesystem() *vfs.FS {
	return e.fs
}

// Output 返回到目前为止捕获的stdout和stderr
func (e *Executor) Output() (string, string) {
	return e.streams.Stdout(), e.streams.Stderr()
}

// ExitCode 返回当前退出码
func (e *Executor) ExitCode() int {
	return e.exitCode
}

// ExitRequested 返回exit是否已被请求
func (e *Executor) ExitRequested() bool {
	return e.exitFlag
}

// FunctionNames 返回已定义的函数名
func (e *Executor) FunctionNames() []string {
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	return names
}

// Execute 执行一段脚本，返回捕获的输出和退出码
// 结构错误、算术错误和未知命令是致命的，此时返回error而非Result
func (e *Executor) Execute(source string) (*Result, error) {
	source = preprocessHeredocs(source)
	if err := e.executeLines(scriptLines(source)); err != nil {
		return nil, err
	}
	return &Result{
		Stdout:   e.streams.Stdout(),
		Stderr:   e.streams.Stderr(),
		ExitCode: e.exitCode,
	}, nil
}

// scriptLines 将脚本切成修剪过的逻辑行，丢弃空行和注释行
func scriptLines(source string) []string {
	var lines []string
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// executeLines 语句分派循环
// 按优先级识别每一行：函数定义→函数调用→控制关键字→exit→子shell/花括号组→普通命令
func (e *Executor) executeLines(lines []string) error {
	i := 0
	for i < len(lines) && !e.exitFlag {
		line := lines[i]

		// 函数定义：跳到函数体closing brace之后
		if name, ok := parseFunctionDef(line); ok {
			end, err := e.defineFunction(name, lines, i)
			if err != nil {
				return err
			}
			i = end + 1
			continue
		}

		// 函数调用：行首token是已定义的函数名
		if name := firstToken(line); name != "" {
			if _, ok := e.functions[name]; ok {
				if err := e.callFunction(line); err != nil {
					return err
				}
				i++
				continue
			}
		}

		// 控制流块：块处理器定位自己的终结符并返回结束下标
		switch {
		case strings.HasPrefix(line, "if "):
			end, err := e.executeIf(lines, i)
			if err != nil {
				return err
			}
			i = end + 1
			continue
		case strings.HasPrefix(line, "for "):
			end, err := e.executeFor(lines, i)
			if err != nil {
				return err
			}
			i = end + 1
			continue
		case strings.HasPrefix(line, "while "):
			end, err := e.executeWhile(lines, i)
			if err != nil {
				return err
			}
			i = end + 1
			continue
		case strings.HasPrefix(line, "case "):
			end, err := e.executeCase(lines, i)
			if err != nil {
				return err
			}
			i = end + 1
			continue
		}

		// exit [N]：立即停止分派循环
		if line == "exit" || strings.HasPrefix(line, "exit ") {
			e.executeExit(line)
			return nil
		}

		// 独立算术命令((expr))，先于子shell识别
		if strings.HasPrefix(line, "((") && strings.HasSuffix(line, "))") {
			if err := e.executeArithCommand(line); err != nil {
				return err
			}
			i++
			continue
		}

		// 子shell和花括号组
		if strings.HasPrefix(line, "(") {
			body, end, err := collectGroup(lines, i, '(', ')')
			if err != nil {
				return err
			}
			if err := e.runSubshell(body); err != nil {
				return err
			}
			i = end + 1
			continue
		}
		if strings.HasPrefix(line, "{") {
			body, end, err := collectGroup(lines, i, '{', '}')
			if err != nil {
				return err
			}
			if err := e.runBraceGroup(body); err != nil {
				return err
			}
			i = end + 1
			continue
		}

		if err := e.executeCommand(line); err != nil {
			return err
		}
		i++
	}
	return nil
}

// firstToken 取一行的首个空白分隔token
func firstToken(line string) string {
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// executeExit 解析exit [N]，无效或缺失的N沿用当前退出码
func (e *Executor) executeExit(line string) {
	fields := strings.Fields(line)
	if len(fields) >= 2 {
		if code, err := strconv.Atoi(fields[1]); err == nil {
			e.exitCode = code
		}
	}
	e.exitFlag = true
}

// (?s)让.跨越换行：命令替换的多行输出可以整体落入赋值右侧
var (
	arrayDeclPattern   = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)=\((.*)\)$`)
	arrayAssignPattern = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)\[(.+)\]=(.*)$`)
	plainAssignPattern = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)
)

// executeCommand 执行一条普通命令行
// 顺序：算术替换→命令替换→数组声明/下标赋值/普通赋值→管道→内置命令
func (e *Executor) executeCommand(line string) error {
	// heredoc字面量命令绕过一切替换和展开
	if line == heredocLiteralCmd || strings.HasPrefix(line, heredocLiteralCmd+" ") {
		return e.executeHeredocLiteral(line)
	}

	line, err := e.substituteArithmetic(line)
	if err != nil {
		return err
	}
	line, err = e.substituteCommands(line)
	if err != nil {
		return err
	}

	// 赋值类：首个匹配即终结
	if m := arrayDeclPattern.FindStringSubmatch(line); m != nil {
		e.arrays[m[1]] = e.expandWords(lexer.SplitWords(m[2]))
		e.exitCode = 0
		return nil
	}
	if m := arrayAssignPattern.FindStringSubmatch(line); m != nil {
		if err := e.assignArrayElement(m[1], m[2], m[3]); err != nil {
			return err
		}
		e.exitCode = 0
		return nil
	}
	if m := plainAssignPattern.FindStringSubmatch(line); m != nil {
		e.env[m[1]] = e.expandValue(m[2])
		e.exitCode = 0
		return nil
	}

	if lexer.HasUnquotedPipe(line) {
		return e.executePipeline(line)
	}

	code, err := e.runSimple(line, e.streams)
	if err != nil {
		return err
	}
	e.exitCode = code
	return nil
}

// assignArrayElement 下标赋值，越界下标直接忽略
func (e *Executor) assignArrayElement(name, idxExpr, value string) error {
	idx, err := e.evalArith(idxExpr)
	if err != nil {
		return err
	}
	arr := e.arrays[name]
	if idx < 0 || idx >= int64(len(arr)) {
		return nil
	}
	arr[idx] = e.expandValue(value)
	return nil
}

// expandValue 展开赋值右侧的值：去引号，单引号部分不展开
func (e *Executor) expandValue(value string) string {
	words := lexer.SplitWords(value)
	if len(words) == 0 {
		return ""
	}
	return strings.Join(e.expandWords(words), " ")
}

// expandWords 逐词展开，单引号词保持字面量
func (e *Executor) expandWords(words []lexer.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		if w.Quote == '\'' {
			out[i] = w.Text
		} else {
			out[i] = e.expandString(w.Text)
		}
	}
	return out
}

// runSimple 执行一条不含管道的简单命令，输出写入给定的流
// 行内容应已完成算术/命令替换；返回内置命令的退出码
func (e *Executor) runSimple(line string, io *stdio.Streams) (int, error) {
	line, redirect, target := splitRedirect(line)

	words := lexer.SplitWords(line)
	if len(words) == 0 {
		return e.exitCode, nil
	}
	expanded := e.expandWords(words)
	name := expanded[0]
	args := expanded[1:]

	fn, ok := builtin.Lookup(name)
	if !ok {
		return 0, commandNotFoundError(name)
	}

	if redirect == "" {
		return fn(args, e.fs, io), nil
	}

	// 重定向：stdout改写到虚拟文件，stderr照常
	targetPath := target
	if tw := lexer.SplitWords(target); len(tw) > 0 {
		targetPath = e.expandWords(tw)[0]
	}
	sub := stdio.New()
	sub.In = io.TakeIn()
	code := fn(args, e.fs, sub)
	io.Err.WriteString(sub.Stderr())
	var werr error
	if redirect == ">" {
		werr = e.fs.WriteFile(targetPath, sub.Stdout())
	} else {
		werr = e.fs.AppendFile(targetPath, sub.Stdout())
	}
	if werr != nil {
		io.Err.WriteString(werr.Error() + "\n")
		return 1, nil
	}
	return code, nil
}

// splitRedirect 识别行尾的> target或>> target（引号外）
// 返回去除重定向部分的命令、重定向类型（"" / ">" / ">>"）和目标
func splitRedirect(line string) (string, string, string) {
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
		case c == '>':
			op := ">"
			j := i + 1
			if j < len(line) && line[j] == '>' {
				op = ">>"
				j++
			}
			target := strings.TrimSpace(line[j:])
			if target == "" {
				return line, "", ""
			}
			return strings.TrimSpace(line[:i]), op, target
		}
	}
	return line, "", ""
}

// cloneStringMap 深拷贝变量表
func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneArrayMap 深拷贝数组表
func cloneArrayMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// cloneFunctionMap 深拷贝函数表
func cloneFunctionMap(m map[string][]string) map[string][]string {
	return cloneArrayMap(m)
}
