// 作用域管理：子shell隔离与花括号组共享
package executor

import (
	"strings"

	"sandbash/internal/stdio"
)

// groupLines 将分组主体切成逻辑行：;与换行等价
func groupLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, splitNonEmpty(line)...)
	}
	return scriptLines(strings.Join(lines, "\n"))
}

// runSubshell 执行子shell ( body )
// 子shell在env/数组/函数表的深拷贝上运行，变量修改不回传父上下文；
// 只有stdout/stderr字节和退出码跨越边界，工作目录也在退出时恢复
func (e *Executor) runSubshell(body string) error {
	child := &Executor{
		env:       cloneStringMap(e.env),
		arrays:    cloneArrayMap(e.arrays),
		functions: cloneFunctionMap(e.functions),
		fs:        e.fs,
		streams:   stdio.New(),
	}
	cwd := e.fs.Getwd()
	defer e.fs.Chdir(cwd)

	err := child.executeLines(groupLines(body))
	e.streams.Out.WriteString(child.streams.Stdout())
	e.streams.Err.WriteString(child.streams.Stderr())
	if err != nil {
		return err
	}
	e.exitCode = child.exitCode
	return nil
}

// runBraceGroup 执行花括号组 { body }
// 直接在当前上下文中执行：所有变量修改可见，exit会终止外层脚本
func (e *Executor) runBraceGroup(body string) error {
	return e.executeLines(groupLines(body))
}
