// Heredoc预处理：执行前对整个脚本做一次重写
// <<DELIM块被改写为echo语句序列；引号定界符的块改写为内部字面量命令，
// 其内容完全绕过展开
package executor

import "strings"

// heredocLiteralCmd 保留的内部命令名，原样输出引号定界heredoc的内容
// 语法: __heredoc__ [-o 目标|-a 目标] -- 文本
const heredocLiteralCmd = "__heredoc__"

// preprocessHeredocs 重写脚本中的所有heredoc块
// 普通行同时按引号外的;切分为独立语句；heredoc产物行保持原样，
// 其内容里的;不是语句分隔符
func preprocessHeredocs(source string) string {
	lines := strings.Split(source, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		delim, strip, quoted, redirect, target := parseHeredocIntro(lines[i])
		if delim == "" {
			if strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
				continue
			}
			out = append(out, splitNonEmpty(lines[i])...)
			continue
		}

		var content []string
		j := i + 1
		for ; j < len(lines); j++ {
			l := lines[j]
			if strip {
				l = strings.TrimLeft(l, "\t")
			}
			if l == delim {
				break
			}
			content = append(content, l)
		}

		for idx, text := range content {
			op := redirect
			if op == ">" && idx > 0 {
				op = ">>"
			}
			switch {
			case quoted && op == "":
				out = append(out, heredocLiteralCmd+" -- "+text)
			case quoted:
				flag := "-a"
				if op == ">" {
					flag = "-o"
				}
				out = append(out, heredocLiteralCmd+" "+flag+" "+target+" -- "+text)
			case op == "":
				out = append(out, "echo "+text)
			default:
				out = append(out, "echo "+text+" "+op+" "+target)
			}
		}
		i = j
	}
	return strings.Join(out, "\n")
}

// heredocIntroIndex 查找引号外的<<起始位置
// 单引号内不处理转义，单引号外的反斜杠使下一字符失去特殊含义
func heredocIntroIndex(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '\\':
			i++
		case quote == '"':
			if c == '"' {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '<' && i+1 < len(line) && line[i+1] == '<':
			return i
		}
	}
	return -1
}

// parseHeredocIntro 解析heredoc引入行
// 返回定界符（无heredoc时为空串）、是否<<-削除制表符、定界符是否带引号、
// 以及引入命令尾部的>/>> 重定向目标
func parseHeredocIntro(line string) (delim string, strip, quoted bool, redirect, target string) {
	idx := heredocIntroIndex(line)
	if idx < 0 {
		return "", false, false, "", ""
	}
	rest := line[idx+2:]
	if strings.HasPrefix(rest, "-") {
		strip = true
		rest = rest[1:]
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return "", false, false, "", ""
	}

	if rest[0] == '\'' || rest[0] == '"' {
		q := rest[0]
		end := strings.IndexByte(rest[1:], q)
		if end < 0 {
			return "", false, false, "", ""
		}
		delim = rest[1 : end+1]
		quoted = true
		rest = rest[end+2:]
	} else {
		end := strings.IndexAny(rest, " \t>")
		if end < 0 {
			end = len(rest)
		}
		delim = rest[:end]
		rest = rest[end:]
	}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, ">>") {
		redirect = ">>"
		target = strings.TrimSpace(rest[2:])
	} else if strings.HasPrefix(rest, ">") {
		redirect = ">"
		target = strings.TrimSpace(rest[1:])
	}
	if redirect != "" && target == "" {
		redirect = ""
	}
	return delim, strip, quoted, redirect, target
}

// executeHeredocLiteral 执行内部字面量命令，文本不经任何展开
func (e *Executor) executeHeredocLiteral(line string) error {
	rest := strings.TrimPrefix(line, heredocLiteralCmd)
	rest = strings.TrimPrefix(rest, " ")

	mode := ""
	target := ""
	switch {
	case strings.HasPrefix(rest, "-o ") || strings.HasPrefix(rest, "-a "):
		mode = rest[:2]
		rest = rest[3:]
		idx := strings.Index(rest, " -- ")
		switch {
		case idx >= 0:
			target = rest[:idx]
			rest = rest[idx+4:]
		case strings.HasSuffix(rest, " --"):
			// 内容为空行时，行尾空白已被修剪掉
			target = rest[:len(rest)-3]
			rest = ""
		default:
			return structuralError("heredoc字面量命令格式错误: %s", line)
		}
	case strings.HasPrefix(rest, "-- "):
		rest = rest[3:]
	case rest == "--":
		rest = ""
	default:
		return structuralError("heredoc字面量命令格式错误: %s", line)
	}

	text := rest + "\n"
	var err error
	switch mode {
	case "":
		e.streams.Out.WriteString(text)
	case "-o":
		err = e.fs.WriteFile(target, text)
	case "-a":
		err = e.fs.AppendFile(target, text)
	}
	if err != nil {
		e.streams.Err.WriteString(err.Error() + "\n")
		e.exitCode = 1
		return nil
	}
	e.exitCode = 0
	return nil
}
