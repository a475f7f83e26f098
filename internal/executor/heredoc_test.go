package executor

import (
	"strings"
	"testing"
)

func TestHeredocBasic(t *testing.T) {
	script := "cat <<EOF\nhello\nworld\nEOF"
	res := mustRun(t, script)
	if res.Stdout != "hello\nworld\n" {
		t.Errorf("heredoc基本输出错误: %q", res.Stdout)
	}
}

func TestHeredocExpandsVariables(t *testing.T) {
	script := "name=alice\ncat <<EOF\nhello $name\nEOF"
	res := mustRun(t, script)
	if res.Stdout != "hello alice\n" {
		t.Errorf("未引号定界符应展开变量: %q", res.Stdout)
	}
}

func TestHeredocQuotedDelimiterIsLiteral(t *testing.T) {
	script := "name=alice\ncat <<'EOF'\nhello $name\nEOF"
	res := mustRun(t, script)
	if res.Stdout != "hello $name\n" {
		t.Errorf("引号定界符内容应保持字面: %q", res.Stdout)
	}
}

func TestHeredocDoubleQuotedDelimiter(t *testing.T) {
	script := "cat <<\"END\"\n$not_expanded\nEND"
	res := mustRun(t, script)
	if res.Stdout != "$not_expanded\n" {
		t.Errorf("双引号定界符同样抑制展开: %q", res.Stdout)
	}
}

func TestHeredocStripTabs(t *testing.T) {
	script := "cat <<-EOF\n\tindented\n\t\tdeeper\n\tEOF"
	res := mustRun(t, script)
	if res.Stdout != "indented\ndeeper\n" {
		t.Errorf("<<-应削除行首制表符: %q", res.Stdout)
	}
}

func TestHeredocRedirectToFile(t *testing.T) {
	script := "cat <<EOF > /doc.txt\nline1\nline2\nEOF\ncat /doc.txt"
	res := mustRun(t, script)
	if res.Stdout != "line1\nline2\n" {
		t.Errorf("heredoc重定向到文件错误: %q", res.Stdout)
	}
}

func TestHeredocAppendToFile(t *testing.T) {
	script := "echo first > /doc.txt\ncat <<EOF >> /doc.txt\nsecond\nEOF\ncat /doc.txt"
	res := mustRun(t, script)
	if res.Stdout != "first\nsecond\n" {
		t.Errorf("heredoc追加重定向错误: %q", res.Stdout)
	}
}

func TestHeredocQuotedRedirectToFile(t *testing.T) {
	script := "cat <<'EOF' > /raw.txt\nkeep $this\nEOF\ncat /raw.txt"
	res := mustRun(t, script)
	if res.Stdout != "keep $this\n" {
		t.Errorf("引号定界heredoc重定向应保持字面: %q", res.Stdout)
	}
}

func TestHeredocEmptyLine(t *testing.T) {
	script := "cat <<'EOF'\nfirst\n\nlast\nEOF"
	res := mustRun(t, script)
	if res.Stdout != "first\n\nlast\n" {
		t.Errorf("heredoc空行应保留: %q", res.Stdout)
	}
}

func TestPreprocessHeredocsRewrite(t *testing.T) {
	out := preprocessHeredocs("cat <<EOF\nhello\nEOF")
	if !strings.Contains(out, "echo hello") {
		t.Errorf("未引号heredoc应改写为echo: %q", out)
	}
	out = preprocessHeredocs("cat <<'EOF'\nhello $x\nEOF")
	if !strings.Contains(out, heredocLiteralCmd) {
		t.Errorf("引号heredoc应改写为字面量命令: %q", out)
	}
}

func TestParseHeredocIntro(t *testing.T) {
	tests := []struct {
		line     string
		delim    string
		strip    bool
		quoted   bool
		redirect string
		target   string
	}{
		{"cat <<EOF", "EOF", false, false, "", ""},
		{"cat <<-EOF", "EOF", true, false, "", ""},
		{"cat <<'END'", "END", false, true, "", ""},
		{"cat <<EOF > /f.txt", "EOF", false, false, ">", "/f.txt"},
		{"cat <<EOF >> /f.txt", "EOF", false, false, ">>", "/f.txt"},
		{"echo plain", "", false, false, "", ""},
	}
	for _, tt := range tests {
		delim, strip, quoted, redirect, target := parseHeredocIntro(tt.line)
		if delim != tt.delim || strip != tt.strip || quoted != tt.quoted || redirect != tt.redirect || target != tt.target {
			t.Errorf("parseHeredocIntro(%q) = (%q,%v,%v,%q,%q)，期望 (%q,%v,%v,%q,%q)",
				tt.line, delim, strip, quoted, redirect, target,
				tt.delim, tt.strip, tt.quoted, tt.redirect, tt.target)
		}
	}
}

func TestQuotedAngleBracketsAreNotHeredoc(t *testing.T) {
	// 引号内的<<是普通文本，不开启heredoc
	res := mustRun(t, "echo \"a<<b\"\necho after")
	if res.Stdout != "a<<b\nafter\n" {
		t.Errorf("双引号内<<不应被当作heredoc: %q", res.Stdout)
	}
	res = mustRun(t, "echo 'x<<y'\necho next")
	if res.Stdout != "x<<y\nnext\n" {
		t.Errorf("单引号内<<不应被当作heredoc: %q", res.Stdout)
	}
}

func TestHeredocContentKeepsSemicolons(t *testing.T) {
	res := mustRun(t, "cat <<'EOF'\na; b\nEOF")
	if res.Stdout != "a; b\n" {
		t.Errorf("引号定界heredoc内容中的;应保持字面: %q", res.Stdout)
	}
	res = mustRun(t, "cat <<EOF\nc; d\nEOF")
	if res.Stdout != "c; d\n" {
		t.Errorf("未引号heredoc内容中的;不是语句分隔符: %q", res.Stdout)
	}
}

func TestHeredocLiteralCommandRejectsBadFormat(t *testing.T) {
	err := mustFail(t, heredocLiteralCmd+" -bad format")
	if ee, ok := err.(*ExecutionError); !ok || ee.Type != ExecutionErrorTypeStructural {
		t.Errorf("格式错误的字面量命令应为结构错误，得到 %v", err)
	}
}
