package glob

import "testing"

func TestMatchLiteral(t *testing.T) {
	if !Match("hello", "hello") {
		t.Error("字面量应当匹配自身")
	}
	if Match("hello", "world") {
		t.Error("不同字面量不应匹配")
	}
	if Match("hello", "hell") {
		t.Error("前缀不应匹配")
	}
}

func TestMatchStar(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"*.txt", "file.txt", true},
		{"*.txt", "file.md", false},
		{"a*c", "abc", true},
		{"a*c", "ac", true},
		{"a*c", "abbbc", true},
		{"a*c", "abcd", false},
		{"*a*", "banana", true},
		{"a**b", "ab", true},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.value); got != tt.want {
			t.Errorf("Match(%q, %q) = %v，期望 %v", tt.pattern, tt.value, got, tt.want)
		}
	}
}

func TestMatchQuestion(t *testing.T) {
	if !Match("h?llo", "hello") {
		t.Error("?应匹配单个字符")
	}
	if Match("h?llo", "hllo") {
		t.Error("?不应匹配空")
	}
	if Match("h?llo", "heello") {
		t.Error("?不应匹配两个字符")
	}
}

func TestMatchClass(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"[abc]", "a", true},
		{"[abc]", "d", false},
		{"[a-z]", "m", true},
		{"[a-z]", "M", false},
		{"[0-9]*", "42abc", true},
		{"[!abc]", "d", true},
		{"[!abc]", "a", false},
		{"file[0-9].txt", "file3.txt", true},
		{"file[0-9].txt", "filex.txt", false},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.value); got != tt.want {
			t.Errorf("Match(%q, %q) = %v，期望 %v", tt.pattern, tt.value, got, tt.want)
		}
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	if !Match("", "") {
		t.Error("空模式应匹配空值")
	}
	if Match("", "x") {
		t.Error("空模式不应匹配非空值")
	}
}
