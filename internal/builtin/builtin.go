// Package builtin 提供沙箱内置命令注册表
// 所有命令只操作虚拟文件系统和捕获流，从不执行真实进程
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"sandbash/internal/stdio"
	"sandbash/internal/vfs"
)

// Func 内置命令函数类型，返回退出码
type Func func(args []string, fs *vfs.FS, io *stdio.Streams) int

var builtins map[string]Func

func init() {
	builtins = make(map[string]Func)
	builtins["echo"] = echo
	builtins["printf"] = printfCmd
	builtins["cd"] = cd
	builtins["pwd"] = pwd
	builtins["cat"] = cat
	builtins["ls"] = ls
	builtins["mkdir"] = mkdir
	builtins["rmdir"] = rmdir
	builtins["rm"] = rm
	builtins["touch"] = touch
	builtins["true"] = trueCmd
	builtins["false"] = falseCmd
	builtins["basename"] = basename
	builtins["dirname"] = dirname
	builtins["seq"] = seq
	builtins["wc"] = wc
	builtins["tr"] = tr
	builtins["head"] = head
	builtins["tail"] = tail
	builtins["cut"] = cut
	builtins["sort"] = sortCmd
	builtins["uniq"] = uniq
	builtins["grep"] = grep
}

// Lookup 查找内置命令
func Lookup(name string) (Func, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

// IsBuiltin 判断是否为内置命令
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Names 返回所有内置命令名，按字典序排序
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fail 向stderr输出错误并返回退出码1
func fail(io *stdio.Streams, name string, err error) int {
	fmt.Fprintf(&io.Err, "%s: %v\n", name, err)
	return 1
}

// echo 输出参数，空格连接并追加换行，-n抑制换行
func echo(args []string, fs *vfs.FS, io *stdio.Streams) int {
	newline := true
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	io.Out.WriteString(strings.Join(args, " "))
	if newline {
		io.Out.WriteByte('\n')
	}
	return 0
}

// printfCmd 按格式输出，支持\n/\t转义和%s/%d占位符
func printfCmd(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return 0
	}
	format := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`).Replace(args[0])
	rest := args[1:]
	var out strings.Builder
	argIdx := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '%' && i+1 < len(format) {
			verb := format[i+1]
			i++
			switch verb {
			case 's', 'd':
				value := ""
				if argIdx < len(rest) {
					value = rest[argIdx]
					argIdx++
				}
				if verb == 'd' {
					value = strings.TrimSpace(value)
					if value == "" {
						value = "0"
					}
				}
				out.WriteString(value)
			case '%':
				out.WriteByte('%')
			default:
				out.WriteByte('%')
				out.WriteByte(verb)
			}
			continue
		}
		out.WriteByte(c)
	}
	io.Out.WriteString(out.String())
	return 0
}

// cd 切换虚拟文件系统的当前目录，无参数时回到/
func cd(args []string, fs *vfs.FS, io *stdio.Streams) int {
	dir := "/"
	if len(args) > 0 {
		dir = args[0]
	}
	if err := fs.Chdir(dir); err != nil {
		return fail(io, "cd", err)
	}
	return 0
}

// pwd 输出当前目录
func pwd(args []string, fs *vfs.FS, io *stdio.Streams) int {
	fmt.Fprintln(&io.Out, fs.Getwd())
	return 0
}

// cat 输出文件内容，无参数时输出stdin
func cat(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		io.Out.WriteString(io.TakeIn())
		return 0
	}
	code := 0
	for _, name := range args {
		data, err := fs.ReadFile(name)
		if err != nil {
			code = fail(io, "cat", err)
			continue
		}
		io.Out.WriteString(data)
	}
	return code
}

// ls 列出目录条目，每行一个
func ls(args []string, fs *vfs.FS, io *stdio.Streams) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	names, err := fs.List(dir)
	if err != nil {
		return fail(io, "ls", err)
	}
	for _, name := range names {
		fmt.Fprintln(&io.Out, name)
	}
	return 0
}

// mkdir 创建目录，-p递归创建且不报已存在错误
func mkdir(args []string, fs *vfs.FS, io *stdio.Streams) int {
	recursive := false
	if len(args) > 0 && args[0] == "-p" {
		recursive = true
		args = args[1:]
	}
	if len(args) == 0 {
		return fail(io, "mkdir", fmt.Errorf("缺少操作数"))
	}
	code := 0
	for _, dir := range args {
		var err error
		if recursive {
			err = fs.MkdirAll(dir)
		} else {
			err = fs.Mkdir(dir)
		}
		if err != nil {
			code = fail(io, "mkdir", err)
		}
	}
	return code
}

// rmdir 删除空目录
func rmdir(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return fail(io, "rmdir", fmt.Errorf("缺少操作数"))
	}
	code := 0
	for _, dir := range args {
		if !fs.IsDir(dir) {
			code = fail(io, "rmdir", fmt.Errorf("不是目录: %s", dir))
			continue
		}
		if err := fs.Remove(dir); err != nil {
			code = fail(io, "rmdir", err)
		}
	}
	return code
}

// rm 删除文件，-r递归删除目录
func rm(args []string, fs *vfs.FS, io *stdio.Streams) int {
	recursive := false
	if len(args) > 0 && (args[0] == "-r" || args[0] == "-rf") {
		recursive = true
		args = args[1:]
	}
	if len(args) == 0 {
		return fail(io, "rm", fmt.Errorf("缺少操作数"))
	}
	code := 0
	for _, name := range args {
		var err error
		if recursive {
			err = fs.RemoveAll(name)
		} else {
			if fs.IsDir(name) {
				code = fail(io, "rm", fmt.Errorf("是一个目录: %s", name))
				continue
			}
			err = fs.Remove(name)
		}
		if err != nil {
			code = fail(io, "rm", err)
		}
	}
	return code
}

// touch 创建空文件
func touch(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return fail(io, "touch", fmt.Errorf("缺少操作数"))
	}
	code := 0
	for _, name := range args {
		if err := fs.Touch(name); err != nil {
			code = fail(io, "touch", err)
		}
	}
	return code
}

func trueCmd(args []string, fs *vfs.FS, io *stdio.Streams) int  { return 0 }
func falseCmd(args []string, fs *vfs.FS, io *stdio.Streams) int { return 1 }

// basename 输出路径的最后一级
func basename(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return fail(io, "basename", fmt.Errorf("缺少操作数"))
	}
	p := vfs.NormalizePath(args[0])
	idx := strings.LastIndexByte(p, '/')
	name := p[idx+1:]
	if name == "" {
		name = "/"
	}
	fmt.Fprintln(&io.Out, name)
	return 0
}

// dirname 输出路径的目录部分
func dirname(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return fail(io, "dirname", fmt.Errorf("缺少操作数"))
	}
	p := vfs.NormalizePath(args[0])
	idx := strings.LastIndexByte(p, '/')
	switch {
	case idx < 0:
		fmt.Fprintln(&io.Out, ".")
	case idx == 0:
		fmt.Fprintln(&io.Out, "/")
	default:
		fmt.Fprintln(&io.Out, p[:idx])
	}
	return 0
}

// seq 输出整数序列，seq N为1..N，seq A B为A..B
func seq(args []string, fs *vfs.FS, io *stdio.Streams) int {
	first, last := int64(1), int64(0)
	var err error
	switch len(args) {
	case 1:
		last, err = parseInt(args[0])
	case 2:
		first, err = parseInt(args[0])
		if err == nil {
			last, err = parseInt(args[1])
		}
	default:
		err = fmt.Errorf("参数个数错误")
	}
	if err != nil {
		return fail(io, "seq", err)
	}
	for i := first; i <= last; i++ {
		fmt.Fprintln(&io.Out, i)
	}
	return 0
}

func parseInt(s string) (int64, error) {
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("无效的数字: %s", s)
	}
	return n, nil
}
