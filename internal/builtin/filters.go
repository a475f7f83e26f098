// 文本过滤类内置命令：有文件参数时读虚拟文件，否则消费stdin
package builtin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sandbash/internal/stdio"
	"sandbash/internal/vfs"
)

// input 获取过滤命令的输入：优先读文件参数，否则取stdin
func input(args []string, fs *vfs.FS, io *stdio.Streams) (string, error) {
	if len(args) == 0 {
		return io.TakeIn(), nil
	}
	var data strings.Builder
	for _, name := range args {
		content, err := fs.ReadFile(name)
		if err != nil {
			return "", err
		}
		data.WriteString(content)
	}
	return data.String(), nil
}

// inputLines 按行切分输入，忽略末尾空行
func inputLines(data string) []string {
	lines := strings.Split(data, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// wc 统计行数、单词数、字节数；-l/-w/-c只输出对应一项
func wc(args []string, fs *vfs.FS, io *stdio.Streams) int {
	mode := ""
	if len(args) > 0 && strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}
	data, err := input(args, fs, io)
	if err != nil {
		return fail(io, "wc", err)
	}
	lines := strings.Count(data, "\n")
	words := len(strings.Fields(data))
	bytes := len(data)
	switch mode {
	case "-l":
		fmt.Fprintln(&io.Out, lines)
	case "-w":
		fmt.Fprintln(&io.Out, words)
	case "-c":
		fmt.Fprintln(&io.Out, bytes)
	case "":
		fmt.Fprintf(&io.Out, "%d %d %d\n", lines, words, bytes)
	default:
		return fail(io, "wc", fmt.Errorf("无效选项: %s", mode))
	}
	return 0
}

// expandSet 展开tr字符集中的a-z范围
func expandSet(set string) string {
	var out strings.Builder
	for i := 0; i < len(set); i++ {
		if i+2 < len(set) && set[i+1] == '-' && set[i] <= set[i+2] {
			for c := set[i]; c <= set[i+2]; c++ {
				out.WriteByte(c)
			}
			i += 2
			continue
		}
		out.WriteByte(set[i])
	}
	return out.String()
}

// tr 字符转换：tr SET1 SET2做映射，tr -d SET1做删除；只读stdin
func tr(args []string, fs *vfs.FS, io *stdio.Streams) int {
	data := io.TakeIn()
	if len(args) >= 2 && args[0] == "-d" {
		del := expandSet(args[1])
		var out strings.Builder
		for i := 0; i < len(data); i++ {
			if !strings.ContainsRune(del, rune(data[i])) {
				out.WriteByte(data[i])
			}
		}
		io.Out.WriteString(out.String())
		return 0
	}
	if len(args) < 2 {
		return fail(io, "tr", fmt.Errorf("缺少操作数"))
	}
	from := expandSet(args[0])
	to := expandSet(args[1])
	var out strings.Builder
	for i := 0; i < len(data); i++ {
		c := data[i]
		if idx := strings.IndexByte(from, c); idx >= 0 {
			if idx < len(to) {
				c = to[idx]
			} else if len(to) > 0 {
				c = to[len(to)-1]
			}
		}
		out.WriteByte(c)
	}
	io.Out.WriteString(out.String())
	return 0
}

// headTailCount 解析-n N参数，默认10行
func headTailCount(args []string) (int, []string, error) {
	n := 10
	if len(args) > 0 && args[0] == "-n" {
		if len(args) < 2 {
			return 0, nil, fmt.Errorf("-n 缺少参数")
		}
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, nil, fmt.Errorf("无效的行数: %s", args[1])
		}
		n = parsed
		args = args[2:]
	}
	return n, args, nil
}

// head 输出前N行
func head(args []string, fs *vfs.FS, io *stdio.Streams) int {
	n, rest, err := headTailCount(args)
	if err != nil {
		return fail(io, "head", err)
	}
	data, err := input(rest, fs, io)
	if err != nil {
		return fail(io, "head", err)
	}
	lines := inputLines(data)
	if n > len(lines) {
		n = len(lines)
	}
	for _, line := range lines[:n] {
		fmt.Fprintln(&io.Out, line)
	}
	return 0
}

// tail 输出后N行
func tail(args []string, fs *vfs.FS, io *stdio.Streams) int {
	n, rest, err := headTailCount(args)
	if err != nil {
		return fail(io, "tail", err)
	}
	data, err := input(rest, fs, io)
	if err != nil {
		return fail(io, "tail", err)
	}
	lines := inputLines(data)
	start := len(lines) - n
	if start < 0 {
		start = 0
	}
	for _, line := range lines[start:] {
		fmt.Fprintln(&io.Out, line)
	}
	return 0
}

// cut 按分隔符提取字段：cut -d DELIM -f N
func cut(args []string, fs *vfs.FS, io *stdio.Streams) int {
	delim := "\t"
	field := 0
	var rest []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-d" && i+1 < len(args):
			delim = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-d") && len(args[i]) > 2:
			delim = args[i][2:]
		case args[i] == "-f" && i+1 < len(args):
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fail(io, "cut", fmt.Errorf("无效的字段号: %s", args[i+1]))
			}
			field = n
			i++
		case strings.HasPrefix(args[i], "-f") && len(args[i]) > 2:
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				return fail(io, "cut", fmt.Errorf("无效的字段号: %s", args[i][2:]))
			}
			field = n
		default:
			rest = append(rest, args[i])
		}
	}
	if field < 1 {
		return fail(io, "cut", fmt.Errorf("必须指定字段 -f"))
	}
	data, err := input(rest, fs, io)
	if err != nil {
		return fail(io, "cut", err)
	}
	for _, line := range inputLines(data) {
		fields := strings.Split(line, delim)
		if field <= len(fields) {
			fmt.Fprintln(&io.Out, fields[field-1])
		} else {
			fmt.Fprintln(&io.Out, line)
		}
	}
	return 0
}

// sortCmd 按字典序排序各行，-r反序
func sortCmd(args []string, fs *vfs.FS, io *stdio.Streams) int {
	reverse := false
	if len(args) > 0 && args[0] == "-r" {
		reverse = true
		args = args[1:]
	}
	data, err := input(args, fs, io)
	if err != nil {
		return fail(io, "sort", err)
	}
	lines := inputLines(data)
	sort.Strings(lines)
	if reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	for _, line := range lines {
		fmt.Fprintln(&io.Out, line)
	}
	return 0
}

// uniq 去除相邻重复行
func uniq(args []string, fs *vfs.FS, io *stdio.Streams) int {
	data, err := input(args, fs, io)
	if err != nil {
		return fail(io, "uniq", err)
	}
	prev := ""
	first := true
	for _, line := range inputLines(data) {
		if first || line != prev {
			fmt.Fprintln(&io.Out, line)
		}
		prev = line
		first = false
	}
	return 0
}

// grep 输出包含子串的行，无匹配时退出码为1
func grep(args []string, fs *vfs.FS, io *stdio.Streams) int {
	if len(args) == 0 {
		return fail(io, "grep", fmt.Errorf("缺少模式"))
	}
	pattern := args[0]
	data, err := input(args[1:], fs, io)
	if err != nil {
		return fail(io, "grep", err)
	}
	matched := false
	for _, line := range inputLines(data) {
		if strings.Contains(line, pattern) {
			fmt.Fprintln(&io.Out, line)
			matched = true
		}
	}
	if !matched {
		return 1
	}
	return 0
}
