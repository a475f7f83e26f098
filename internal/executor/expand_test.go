package executor

import "testing"

// runExpand 在预置变量的执行器上展开一段文本
func runExpand(t *testing.T, setup map[string]string, text string) string {
	t.Helper()
	e := New()
	for k, v := range setup {
		e.SetEnv(k, v)
	}
	return e.expandString(text)
}

func TestExpandSimpleVariable(t *testing.T) {
	got := runExpand(t, map[string]string{"name": "world"}, "hello $name!")
	if got != "hello world!" {
		t.Errorf("展开错误，期望 'hello world!'，得到 %q", got)
	}
}

func TestExpandBracedVariable(t *testing.T) {
	got := runExpand(t, map[string]string{"x": "ab"}, "${x}cd")
	if got != "abcd" {
		t.Errorf("花括号展开错误: %q", got)
	}
}

func TestExpandLength(t *testing.T) {
	tests := []struct {
		setup map[string]string
		text  string
		want  string
	}{
		{map[string]string{"s": "hello"}, "${#s}", "5"},
		{map[string]string{"s": ""}, "${#s}", "0"},
		{nil, "${#missing}", "0"},
	}
	for _, tt := range tests {
		got := runExpand(t, tt.setup, tt.text)
		if got != tt.want {
			t.Errorf("%s 期望 %q，得到 %q", tt.text, tt.want, got)
		}
	}
}

func TestExpandDefaultOperators(t *testing.T) {
	tests := []struct {
		name  string
		setup map[string]string
		text  string
		want  string
	}{
		{"未设置取默认", nil, "${x:-fallback}", "fallback"},
		{"已设置不取默认", map[string]string{"x": "v"}, "${x:-fallback}", "v"},
		{"空串视为未设置", map[string]string{"x": ""}, "${x:-fallback}", "fallback"},
		{"替代值：已设置", map[string]string{"x": "v"}, "${x:+alt}", "alt"},
		{"替代值：未设置", nil, "${x:+alt}", ""},
		{"默认值可含变量", map[string]string{"d": "deep"}, "${x:-$d}", "deep"},
	}
	for _, tt := range tests {
		got := runExpand(t, tt.setup, tt.text)
		if got != tt.want {
			t.Errorf("%s: 期望 %q，得到 %q", tt.name, tt.want, got)
		}
	}
}

func TestExpandAssignDefault(t *testing.T) {
	e := New()
	got := e.expandString("${x:=stored}")
	if got != "stored" {
		t.Errorf(":=应返回默认值: %q", got)
	}
	if v, _ := e.GetEnv("x"); v != "stored" {
		t.Errorf(":=应同时写回变量，得到 %q", v)
	}
	// 再次展开读到已写回的值
	if got := e.expandString("${x:=other}"); got != "stored" {
		t.Errorf("已设置后:=不应覆盖: %q", got)
	}
}

func TestExpandErrorOperatorSubstitutesMessage(t *testing.T) {
	got := runExpand(t, nil, "${x:?custom message}")
	if got != "custom message" {
		t.Errorf(":?未设置时应展开为消息文本: %q", got)
	}
	got = runExpand(t, map[string]string{"x": "ok"}, "${x:?ignored}")
	if got != "ok" {
		t.Errorf(":?已设置时应展开为值: %q", got)
	}
}

func TestExpandTrimPrefix(t *testing.T) {
	setup := map[string]string{"p": "a/b/c.txt"}
	tests := []struct {
		text string
		want string
	}{
		{"${p#*/}", "b/c.txt"},
		{"${p##*/}", "c.txt"},
		{"${p#x}", "a/b/c.txt"},
	}
	for _, tt := range tests {
		got := runExpand(t, setup, tt.text)
		if got != tt.want {
			t.Errorf("%s 期望 %q，得到 %q", tt.text, tt.want, got)
		}
	}
}

func TestExpandTrimSuffix(t *testing.T) {
	setup := map[string]string{"p": "a/b/c.txt"}
	tests := []struct {
		text string
		want string
	}{
		{"${p%/*}", "a/b"},
		{"${p%%/*}", "a"},
		{"${p%.txt}", "a/b/c"},
		{"${p%x}", "a/b/c.txt"},
	}
	for _, tt := range tests {
		got := runExpand(t, setup, tt.text)
		if got != tt.want {
			t.Errorf("%s 期望 %q，得到 %q", tt.text, tt.want, got)
		}
	}
}

func TestExpandReplace(t *testing.T) {
	tests := []struct {
		value string
		text  string
		want  string
	}{
		{"hello hello", "${v/hello/hi}", "hi hello"},
		{"hello hello", "${v//hello/hi}", "hi hi"},
		{"aXbXc", "${v//X/}", "abc"},
		{"foo.tar.gz", "${v/.t*/}", "foo"},
		{"none", "${v/zzz/y}", "none"},
	}
	for _, tt := range tests {
		got := runExpand(t, map[string]string{"v": tt.value}, tt.text)
		if got != tt.want {
			t.Errorf("%s (v=%q) 期望 %q，得到 %q", tt.text, tt.value, tt.want, got)
		}
	}
}

func TestExpandSubstring(t *testing.T) {
	setup := map[string]string{"s": "abcdefg"}
	tests := []struct {
		text string
		want string
	}{
		{"${s:2}", "cdefg"},
		{"${s:1:3}", "bcd"},
		{"${s:0:0}", ""},
		{"${s:100}", ""},
		{"${s:3:100}", "defg"},
	}
	for _, tt := range tests {
		got := runExpand(t, setup, tt.text)
		if got != tt.want {
			t.Errorf("%s 期望 %q，得到 %q", tt.text, tt.want, got)
		}
	}
}

func TestExpandExitCodeAndPositional(t *testing.T) {
	e := New()
	e.exitCode = 42
	e.SetEnv("1", "first")
	e.SetEnv("#", "1")
	e.SetEnv("@", "first")
	if got := e.expandString("$? $1 $# $@"); got != "42 first 1 first" {
		t.Errorf("特殊参数展开错误: %q", got)
	}
}

func TestExpandDollarAtEnd(t *testing.T) {
	got := runExpand(t, nil, "price$")
	if got != "price$" {
		t.Errorf("行尾孤立$应保持字面: %q", got)
	}
}
