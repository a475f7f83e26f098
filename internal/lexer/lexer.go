// Package lexer 提供命令行的引号感知切分
// 解释器按扁平行序列工作，不构建token流；本包只负责在尊重引号、
// 转义和括号嵌套的前提下把一行切成单词、管道阶段或语句
package lexer

import "strings"

// Word 一个切分出的单词
type Word struct {
	Text  string // 去掉引号后的文本
	Quote byte   // 进入该单词的第一种引号：0表示无引号，'\''或'"'
}

// SplitWords 将一行切分为单词序列，引号内的空白不分词
// 单引号内不处理转义，双引号内支持\"和\\转义
func SplitWords(line string) []Word {
	var words []Word
	var current strings.Builder
	var quote byte    // 当前所在引号
	var seenQuote byte // 当前单词遇到的第一种引号
	inWord := false

	flush := func() {
		if inWord {
			words = append(words, Word{Text: current.String(), Quote: seenQuote})
			current.Reset()
			seenQuote = 0
			inWord = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case quote == '"':
			if c == '"' {
				quote = 0
			} else if c == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\') {
				current.WriteByte(line[i+1])
				i++
			} else {
				current.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			if seenQuote == 0 {
				seenQuote = c
			}
			inWord = true
		case c == '\\' && i+1 < len(line):
			current.WriteByte(line[i+1])
			i++
			inWord = true
		case c == ' ' || c == '\t':
			flush()
		default:
			current.WriteByte(c)
			inWord = true
		}
	}
	flush()
	return words
}

// Texts 提取单词序列的纯文本
func Texts(words []Word) []string {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return texts
}

// SplitPipeline 在引号和括号嵌套之外按|切分管道阶段
// 返回去除首尾空白的各阶段命令，没有未加引号的|时返回单元素
func SplitPipeline(line string) []string {
	return splitOutside(line, '|')
}

// SplitStatements 在引号和括号嵌套之外按;切分语句
func SplitStatements(line string) []string {
	return splitOutside(line, ';')
}

// splitOutside 在引号/括号/花括号之外按sep切分
func splitOutside(line string, sep byte) []string {
	var parts []string
	var current strings.Builder
	var quote byte
	depth := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == '(' || c == '{':
			depth++
			current.WriteByte(c)
		case c == ')' || c == '}':
			depth--
			current.WriteByte(c)
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	parts = append(parts, strings.TrimSpace(current.String()))
	return parts
}

// HasUnquotedPipe 判断一行是否含有引号和括号之外的管道符
func HasUnquotedPipe(line string) bool {
	return len(SplitPipeline(line)) > 1
}
