// Package shell 提供交互式REPL前端
// 每个Shell持有一个长驻的执行器实例，逐行送入脚本片段并打印增量输出；
// 沙箱语义不变：所有命令仍然只作用于虚拟文件系统和捕获流
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"sandbash/internal/executor"
	"sandbash/internal/lexer"
)

// Shell 交互式Shell主结构
type Shell struct {
	executor *executor.Executor
	prompt   string
	history  *History
	outPos   int // 已打印的stdout偏移
	errPos   int // 已打印的stderr偏移
}

// New 创建新的Shell实例
func New() *Shell {
	history := NewHistory(1000)

	// 尝试加载历史记录
	if home := os.Getenv("HOME"); home != "" {
		history.LoadFromFile(filepath.Join(home, ".sandbash_history"))
	}

	return &Shell{
		executor: executor.New(),
		prompt:   "sandbash$ ",
		history:  history,
	}
}

// Run 运行交互式REPL
func (s *Shell) Run() {
	historyFile := ""
	if home := os.Getenv("HOME"); home != "" {
		historyFile = filepath.Join(home, ".sandbash_history")
	}

	config := &readline.Config{
		Prompt:          s.prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    1000,
		AutoComplete:    NewCompleter(s),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		// readline初始化失败时回退到简单的行读取
		s.runSimple()
		return
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.prompt)
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println()
				continue
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// 多行输入：结构未闭合时继续读取
		for needsContinuation(line) {
			rl.SetPrompt("> ")
			next, err := rl.Readline()
			if err != nil {
				break
			}
			line += "\n" + strings.TrimSpace(next)
		}

		s.history.Add(line)
		s.EvalFragment(line)
		if s.executor.ExitRequested() {
			break
		}
	}
}

// runSimple 无readline时的回退REPL
func (s *Shell) runSimple() {
	for {
		fmt.Print(s.prompt)
		var line string
		if _, err := fmt.Scanln(&line); err != nil {
			return
		}
		s.EvalFragment(line)
		if s.executor.ExitRequested() {
			return
		}
	}
}

// EvalFragment 执行一段脚本并打印自上次以来的增量输出
func (s *Shell) EvalFragment(source string) {
	_, err := s.executor.Execute(source)
	s.flushOutput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandbash: %v\n", err)
	}
}

// flushOutput 打印尚未打印的捕获输出
func (s *Shell) flushOutput() {
	stdout, stderr := s.executor.Output()
	if len(stdout) > s.outPos {
		fmt.Print(stdout[s.outPos:])
		s.outPos = len(stdout)
	}
	if len(stderr) > s.errPos {
		fmt.Fprint(os.Stderr, stderr[s.errPos:])
		s.errPos = len(stderr)
	}
}

// ExecuteString 执行一段完整脚本，返回执行结果
func (s *Shell) ExecuteString(source string) (*executor.Result, error) {
	return s.executor.Execute(source)
}

// ExecuteScript 从宿主机读取脚本文件并在沙箱中执行
// 额外参数绑定为脚本的位置参数
func (s *Shell) ExecuteScript(path string, args ...string) (*executor.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取脚本 %s: %w", path, err)
	}
	for i, arg := range args {
		s.executor.SetEnv(fmt.Sprintf("%d", i+1), arg)
	}
	s.executor.SetEnv("#", fmt.Sprintf("%d", len(args)))
	return s.executor.Execute(string(data))
}

// needsContinuation 判断输入片段是否还有未闭合的结构
// 引号内的;和关键字不参与判断
func needsContinuation(fragment string) bool {
	depth := 0
	for _, raw := range strings.Split(fragment, "\n") {
		for _, stmt := range lexer.SplitStatements(raw) {
			words := lexer.SplitWords(stmt)
			if len(words) == 0 || words[0].Quote != 0 {
				continue
			}
			switch words[0].Text {
			case "if", "for", "while", "case":
				depth++
			case "fi", "done", "esac":
				depth--
			}
		}
	}
	return depth > 0
}
