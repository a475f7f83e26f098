// Package glob 提供shell通配符模式匹配
package glob

// Match 判断value是否完整匹配pattern
// 支持 *（任意长度）、?（单个字符）、[...]（字符类，支持范围和!取反）
func Match(pattern, value string) bool {
	// 快速路径：裸*匹配一切，无通配符时退化为相等比较
	if pattern == "*" {
		return true
	}
	if !hasWildcard(pattern) {
		return pattern == value
	}
	return match(pattern, value)
}

// hasWildcard 判断模式中是否含有通配符
func hasWildcard(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// match 递归匹配模式和值
func match(pattern, value string) bool {
	if pattern == "" {
		return value == ""
	}

	switch pattern[0] {
	case '*':
		// *回溯：逐步增加消耗的字符数
		for i := 0; i <= len(value); i++ {
			if match(pattern[1:], value[i:]) {
				return true
			}
		}
		return false
	case '?':
		// ?恰好消耗一个字符
		if value == "" {
			return false
		}
		return match(pattern[1:], value[1:])
	case '[':
		if value == "" {
			return false
		}
		ok, rest := matchClass(pattern, value[0])
		if !ok {
			return false
		}
		return match(rest, value[1:])
	default:
		if value == "" || pattern[0] != value[0] {
			return false
		}
		return match(pattern[1:], value[1:])
	}
}

// matchClass 匹配一个字符类 [...]，返回是否匹配以及类之后的剩余模式
// 未闭合的[按字面量'['处理
func matchClass(pattern string, c byte) (bool, string) {
	end := -1
	for i := 1; i < len(pattern); i++ {
		if pattern[i] == ']' && i > 1 {
			end = i
			break
		}
	}
	if end < 0 {
		// 没有闭合的]，按普通字符匹配
		return pattern[0] == c, pattern[1:]
	}

	members := pattern[1:end]
	negate := false
	if len(members) > 0 && (members[0] == '!' || members[0] == '^') {
		negate = true
		members = members[1:]
	}

	matched := false
	for i := 0; i < len(members); i++ {
		// a-z形式的范围
		if i+2 < len(members) && members[i+1] == '-' {
			if members[i] <= c && c <= members[i+2] {
				matched = true
			}
			i += 2
			continue
		}
		if members[i] == c {
			matched = true
		}
	}

	if negate {
		matched = !matched
	}
	return matched, pattern[end+1:]
}
