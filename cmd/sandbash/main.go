package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"sandbash/internal/executor"
	"sandbash/internal/shell"
)

func main() {
	var command = flag.String("c", "", "执行命令字符串")
	var scriptFile = flag.String("f", "", "执行脚本文件")
	flag.Parse()

	sh := shell.New()

	// 执行命令字符串
	if *command != "" {
		finish(sh.ExecuteString(*command))
	}

	// 执行脚本文件
	if *scriptFile != "" {
		finish(sh.ExecuteScript(*scriptFile, flag.Args()...))
	}

	// 位置参数作为脚本执行
	if args := flag.Args(); len(args) > 0 {
		finish(sh.ExecuteScript(args[0], args[1:]...))
	}

	// stdin不是终端时，把整个stdin当作脚本
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			os.Exit(1)
		}
		finish(sh.ExecuteString(string(source)))
	}

	// 交互式模式
	sh.Run()
}

// finish 打印执行结果并以脚本的退出码退出
func finish(res *executor.Result, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		code := 1
		if ee, ok := err.(*executor.ExecutionError); ok {
			code = ee.ExitCode()
		}
		os.Exit(code)
	}
	fmt.Print(res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	os.Exit(res.ExitCode)
}
