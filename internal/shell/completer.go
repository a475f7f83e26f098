package shell

import (
	"strings"

	"sandbash/internal/builtin"
)

// Completer 为readline提供命令名补全
// 候选集合是内置命令名加当前已定义的函数名
type Completer struct {
	shell *Shell
}

// NewCompleter 创建补全器
func NewCompleter(s *Shell) *Completer {
	return &Completer{shell: s}
}

// Do 实现readline.AutoCompleter接口
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// 只补全行首的命令名位置
	if strings.ContainsAny(text, " \t") {
		return nil, 0
	}

	var candidates [][]rune
	for _, name := range c.candidates() {
		if strings.HasPrefix(name, text) {
			candidates = append(candidates, []rune(name[len(text):]))
		}
	}
	return candidates, len(text)
}

// candidates 收集补全候选
func (c *Completer) candidates() []string {
	names := builtin.Names()
	if c.shell != nil && c.shell.executor != nil {
		names = append(names, c.shell.executor.FunctionNames()...)
	}
	return names
}
