// 控制流块：If/For/While/Case以及括号分组
// 块处理器在扁平行序列上用嵌套深度定位自己的终结符，再递归回到分派循环
package executor

import (
	"strings"

	"sandbash/internal/glob"
	"sandbash/internal/lexer"
)

// maxLoopIterations while循环的迭代上限，超出视为致命错误
const maxLoopIterations = 10000

var loopOpeners = []string{"for ", "while "}

// isKeywordStmt 判断语句是否为关键字本身或关键字开头
func isKeywordStmt(stmt, keyword string) bool {
	return stmt == keyword || strings.HasPrefix(stmt, keyword+" ")
}

// splitNonEmpty 引号感知地按;切分并去掉空语句
func splitNonEmpty(line string) []string {
	var out []string
	for _, stmt := range lexer.SplitStatements(line) {
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// findTerminator 从start+1行起查找与start行配对的终结符，返回其行下标
// 同类嵌套结构加深深度；单行自包含结构（如"if a; then b; fi"整行）不影响深度
func findTerminator(lines []string, start int, openers []string, closer string) (int, error) {
	depth := 1
	for i := start + 1; i < len(lines); i++ {
		stmts := splitNonEmpty(lines[i])
		if len(stmts) == 0 {
			continue
		}
		first, last := stmts[0], stmts[len(stmts)-1]

		opens := false
		for _, op := range openers {
			if strings.HasPrefix(first, op) {
				opens = true
				break
			}
		}
		if opens {
			if last != closer {
				depth++
			}
			continue
		}
		if isKeywordStmt(first, closer) {
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, structuralError("缺少 %q", closer)
}

// extractBlock 提取一个完整的控制流块并摊平为语句序列
// 返回从开头到终结符（含）的语句序列和终结符在原始行序列中的下标
func extractBlock(lines []string, i int, openers []string, closer string) ([]string, int, error) {
	stmts := splitNonEmpty(lines[i])
	if len(stmts) > 1 && stmts[len(stmts)-1] == closer {
		return stmts, i, nil
	}
	end, err := findTerminator(lines, i, openers, closer)
	if err != nil {
		return nil, 0, err
	}
	var block []string
	for _, line := range lines[i : end+1] {
		block = append(block, splitNonEmpty(line)...)
	}
	return block, end, nil
}

// executeIf 执行if/elif/else/fi块，返回fi的行下标
func (e *Executor) executeIf(lines []string, i int) (int, error) {
	block, end, err := extractBlock(lines, i, []string{"if "}, "fi")
	if err != nil {
		return 0, err
	}

	type branch struct {
		cond string
		body []string
	}
	branches := []branch{{cond: strings.TrimSpace(block[0][len("if "):])}}
	var elseBody []string
	inElse := false
	depth := 0

	appendStmt := func(stmt string) {
		if inElse {
			elseBody = append(elseBody, stmt)
		} else {
			branches[len(branches)-1].body = append(branches[len(branches)-1].body, stmt)
		}
	}

	for j := 1; j < len(block)-1; j++ {
		stmt := block[j]
		if depth == 0 {
			switch {
			case stmt == "then":
				continue
			case strings.HasPrefix(stmt, "then "):
				appendStmt(stmt[len("then "):])
				continue
			case strings.HasPrefix(stmt, "elif "):
				branches = append(branches, branch{cond: stmt[len("elif "):]})
				continue
			case stmt == "else":
				inElse = true
				continue
			}
		}
		if strings.HasPrefix(stmt, "if ") {
			depth++
		} else if stmt == "fi" {
			depth--
		}
		appendStmt(stmt)
	}

	for _, br := range branches {
		ok, err := e.evalCondition(br.cond)
		if err != nil {
			return 0, err
		}
		if ok {
			return end, e.executeLines(br.body)
		}
	}
	if inElse {
		return end, e.executeLines(elseBody)
	}
	e.exitCode = 0
	return end, nil
}

// loopBody 去掉块首的do和块尾终结符，提取循环体
func loopBody(block []string) []string {
	body := append([]string(nil), block[1:len(block)-1]...)
	if len(body) > 0 {
		if body[0] == "do" {
			body = body[1:]
		} else if strings.HasPrefix(body[0], "do ") {
			body[0] = body[0][len("do "):]
		}
	}
	return body
}

// executeFor 执行for循环，返回done的行下标
// 循环变量在循环结束后保留最后一个值；空列表零次迭代且不报错
func (e *Executor) executeFor(lines []string, i int) (int, error) {
	block, end, err := extractBlock(lines, i, loopOpeners, "done")
	if err != nil {
		return 0, err
	}

	header := strings.TrimSpace(block[0][len("for "):])
	varName := firstToken(header)
	rest := strings.TrimSpace(header[len(varName):])
	if rest != "in" && !strings.HasPrefix(rest, "in ") {
		return 0, structuralError("for 缺少 in 子句: %s", block[0])
	}
	itemsRaw := strings.TrimSpace(strings.TrimPrefix(rest, "in"))

	items, err := e.expandItems(itemsRaw)
	if err != nil {
		return 0, err
	}

	body := loopBody(block)
	for _, item := range items {
		e.env[varName] = item
		if err := e.executeLines(body); err != nil {
			return 0, err
		}
		if e.exitFlag {
			break
		}
	}
	return end, nil
}

// expandItems 展开并按词切分for列表：裸词展开后再分词，引号词保持整体
func (e *Executor) expandItems(raw string) ([]string, error) {
	raw, err := e.substituteArithmetic(raw)
	if err != nil {
		return nil, err
	}
	raw, err = e.substituteCommands(raw)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, w := range lexer.SplitWords(raw) {
		switch w.Quote {
		case '\'':
			items = append(items, w.Text)
		case '"':
			items = append(items, e.expandString(w.Text))
		default:
			items = append(items, strings.Fields(e.expandString(w.Text))...)
		}
	}
	return items, nil
}

// executeWhile 执行while循环，返回done的行下标
func (e *Executor) executeWhile(lines []string, i int) (int, error) {
	block, end, err := extractBlock(lines, i, loopOpeners, "done")
	if err != nil {
		return 0, err
	}
	cond := strings.TrimSpace(block[0][len("while "):])
	body := loopBody(block)

	iterations := 0
	for {
		ok, err := e.evalCondition(cond)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		iterations++
		if iterations > maxLoopIterations {
			return 0, loopLimitError("while 循环超过 %d 次迭代", maxLoopIterations)
		}
		if err := e.executeLines(body); err != nil {
			return 0, err
		}
		if e.exitFlag {
			break
		}
	}
	return end, nil
}

// executeCase 执行case块，返回esac的行下标
// 首个glob匹配的子句被执行，其余跳过；无匹配时为空操作
func (e *Executor) executeCase(lines []string, i int) (int, error) {
	header := lines[i]
	var clauseText string
	var end int

	stmts := splitNonEmpty(header)
	if len(stmts) > 1 && stmts[len(stmts)-1] == "esac" {
		// 单行形式：case WORD in ... esac
		end = i
		inIdx := strings.Index(header, " in ")
		if inIdx < 0 {
			return 0, structuralError("case 缺少 in: %s", header)
		}
		clauseText = strings.TrimSpace(header[inIdx+4:])
		clauseText = strings.TrimSuffix(clauseText, "esac")
		header = header[:inIdx+3]
	} else {
		var err error
		end, err = findTerminator(lines, i, []string{"case "}, "esac")
		if err != nil {
			return 0, err
		}
		clauseText = strings.Join(lines[i+1:end], "\n")
	}

	if !strings.HasSuffix(strings.TrimSpace(header), " in") {
		return 0, structuralError("case 缺少 in: %s", lines[i])
	}
	wordRaw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(header)[len("case "):], "in"))
	wordRaw, err := e.substituteArithmetic(wordRaw)
	if err != nil {
		return 0, err
	}
	wordRaw, err = e.substituteCommands(wordRaw)
	if err != nil {
		return 0, err
	}
	word := ""
	if words := lexer.SplitWords(wordRaw); len(words) > 0 {
		word = e.expandWords(words)[0]
	}

	for _, clause := range splitClauses(clauseText) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		patterns, body, err := splitClause(clause)
		if err != nil {
			return 0, err
		}
		if e.matchPatterns(patterns, word) {
			return end, e.executeLines(scriptLines(strings.Join(splitNonEmpty(strings.ReplaceAll(body, "\n", ";")), "\n")))
		}
	}
	e.exitCode = 0
	return end, nil
}

// splitClauses 在引号外按;;切分case子句
func splitClauses(text string) []string {
	var parts []string
	var current strings.Builder
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ';' && i+1 < len(text) && text[i+1] == ';':
			parts = append(parts, current.String())
			current.Reset()
			i++
		default:
			current.WriteByte(c)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// splitClause 把一个子句切分为模式表和命令体
func splitClause(clause string) ([]string, string, error) {
	var quote byte
	for i := 0; i < len(clause); i++ {
		c := clause[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ')':
			var patterns []string
			for _, p := range strings.Split(clause[:i], "|") {
				patterns = append(patterns, strings.TrimSpace(p))
			}
			return patterns, clause[i+1:], nil
		}
	}
	return nil, "", structuralError("case 子句缺少 ): %s", clause)
}

// matchPatterns 判断word是否匹配任一模式
func (e *Executor) matchPatterns(patterns []string, word string) bool {
	for _, raw := range patterns {
		pattern := raw
		if words := lexer.SplitWords(raw); len(words) > 0 {
			pattern = e.expandWords(words)[0]
		}
		if glob.Match(pattern, word) {
			return true
		}
	}
	return false
}

// collectGroup 收集一个括号/花括号分组的主体
// 分组可以跨多行；返回开闭符之间的文本和结束行下标
func collectGroup(lines []string, i int, open, close byte) (string, int, error) {
	var text strings.Builder
	depth := 0
	var quote byte
	started := false
	for j := i; j < len(lines); j++ {
		line := lines[j]
		for k := 0; k < len(line); k++ {
			c := line[k]
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '\'' || c == '"':
				quote = c
			case c == open:
				depth++
				if depth == 1 {
					started = true
					continue
				}
			case c == close:
				depth--
				if depth == 0 {
					return text.String(), j, nil
				}
			}
			if started && depth > 0 {
				text.WriteByte(c)
			}
		}
		if started {
			text.WriteByte('\n')
		}
	}
	return "", 0, structuralError("缺少配对的 %q", string(close))
}
