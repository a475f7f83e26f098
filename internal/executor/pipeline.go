// 管道执行：引号感知切分各阶段，上一阶段的stdout整体作为下一阶段的stdin
package executor

import (
	"strings"

	"sandbash/internal/lexer"
	"sandbash/internal/stdio"
)

// executePipeline 执行一条含管道的命令行
// 阶段输出完全物化后才进入下一阶段；管道退出码取最后一个阶段；
// 任一阶段的命令未找到对整条管道都是致命的
func (e *Executor) executePipeline(line string) error {
	stages := lexer.SplitPipeline(line)
	carry := e.streams.TakeIn()
	code := 0

	for _, stage := range stages {
		if strings.TrimSpace(stage) == "" {
			return pipelineError("存在空的管道阶段: %s", line)
		}
		io := stdio.New()
		io.In = carry
		c, err := e.runSimple(stage, io)
		if err != nil {
			return err
		}
		e.streams.Err.WriteString(io.Stderr())
		carry = io.Stdout()
		code = c
	}

	e.streams.Out.WriteString(carry)
	e.exitCode = code
	return nil
}
