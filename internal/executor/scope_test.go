package executor

import "testing"

func TestSubshellIsolatesVariables(t *testing.T) {
	res := mustRun(t, "x=outer\n(x=inner)\necho $x")
	if res.Stdout != "outer\n" {
		t.Errorf("子shell赋值不应回传: %q", res.Stdout)
	}
}

func TestSubshellOutputCrossesBoundary(t *testing.T) {
	res := mustRun(t, "(echo from_subshell)\necho from_parent")
	if res.Stdout != "from_subshell\nfrom_parent\n" {
		t.Errorf("子shell的stdout应汇入父输出: %q", res.Stdout)
	}
}

func TestSubshellExitCodeCrossesBoundary(t *testing.T) {
	res := mustRun(t, "(false)\necho $?")
	if res.Stdout != "1\n" {
		t.Errorf("子shell退出码应回传: %q", res.Stdout)
	}
}

func TestSubshellRestoresCwd(t *testing.T) {
	res := mustRun(t, "mkdir /tmp\n(cd /tmp; pwd)\npwd")
	if res.Stdout != "/tmp\n/\n" {
		t.Errorf("子shell退出后应恢复工作目录: %q", res.Stdout)
	}
}

func TestSubshellExitDoesNotStopParent(t *testing.T) {
	res := mustRun(t, "(exit 5)\necho survived $?")
	if res.Stdout != "survived 5\n" {
		t.Errorf("子shell内exit只终止子shell: %q", res.Stdout)
	}
}

func TestSubshellSeesParentVariables(t *testing.T) {
	res := mustRun(t, "x=visible\n(echo $x)")
	if res.Stdout != "visible\n" {
		t.Errorf("子shell应看到父变量的拷贝: %q", res.Stdout)
	}
}

func TestSubshellMultiStatement(t *testing.T) {
	res := mustRun(t, "(echo a; echo b)")
	if res.Stdout != "a\nb\n" {
		t.Errorf("子shell多语句错误: %q", res.Stdout)
	}
}

func TestSubshellMultiLine(t *testing.T) {
	res := mustRun(t, "(\necho one\necho two\n)")
	if res.Stdout != "one\ntwo\n" {
		t.Errorf("跨行子shell错误: %q", res.Stdout)
	}
}

func TestBraceGroupSharesContext(t *testing.T) {
	res := mustRun(t, "{ x=5; }\necho $x")
	if res.Stdout != "5\n" {
		t.Errorf("花括号组的赋值应对外可见: %q", res.Stdout)
	}
}

func TestBraceGroupExitStopsScript(t *testing.T) {
	res := mustRun(t, "{ exit 3; }\necho after")
	if res.Stdout != "" {
		t.Errorf("花括号组内exit应终止外层脚本: %q", res.Stdout)
	}
	if res.ExitCode != 3 {
		t.Errorf("退出码应为3，得到 %d", res.ExitCode)
	}
}

func TestBraceGroupMultiLine(t *testing.T) {
	res := mustRun(t, "{\na=1\nb=2\n}\necho $a$b")
	if res.Stdout != "12\n" {
		t.Errorf("跨行花括号组错误: %q", res.Stdout)
	}
}

func TestUnclosedSubshellIsStructural(t *testing.T) {
	err := mustFail(t, "(echo a")
	if ee, ok := err.(*ExecutionError); !ok || ee.Type != ExecutionErrorTypeStructural {
		t.Errorf("未闭合的子shell应为结构错误，得到 %v", err)
	}
}
