package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory(10)
	h.Add("echo hello")
	h.Add("pwd")
	if h.Size() != 2 {
		t.Errorf("历史数量期望2，得到 %d", h.Size())
	}
}

func TestHistorySkipsDuplicatesAndBlank(t *testing.T) {
	h := NewHistory(10)
	h.Add("pwd")
	h.Add("pwd")
	h.Add("  ")
	h.Add("")
	if h.Size() != 1 {
		t.Errorf("重复和空白命令不应入史，数量期望1，得到 %d", h.Size())
	}
}

func TestHistoryMaxSize(t *testing.T) {
	h := NewHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d"} {
		h.Add(cmd)
	}
	all := h.GetAll()
	if len(all) != 3 {
		t.Fatalf("超出上限时应淘汰最旧的，数量期望3，得到 %d", len(all))
	}
	if all[0] != "b" || all[2] != "d" {
		t.Errorf("淘汰顺序错误: %v", all)
	}
}

func TestHistorySaveAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")

	h := NewHistory(10)
	h.Add("echo one")
	h.Add("echo two")
	if err := h.SaveToFile(file); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	loaded := NewHistory(10)
	if err := loaded.LoadFromFile(file); err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if loaded.Size() != 2 {
		t.Errorf("加载后数量期望2，得到 %d", loaded.Size())
	}
	if loaded.GetAll()[0] != "echo one" {
		t.Errorf("加载内容错误: %v", loaded.GetAll())
	}
}

func TestHistoryLoadMissingFileIsSoft(t *testing.T) {
	h := NewHistory(10)
	if err := h.LoadFromFile(filepath.Join(os.TempDir(), "no_such_history_file_xyz")); err != nil {
		t.Errorf("文件不存在不应报错: %v", err)
	}
}

func TestCompleterMatchesPrefix(t *testing.T) {
	s := New()
	s.ExecuteString("myfunc() { echo hi; }")
	c := NewCompleter(s)

	candidates, length := c.Do([]rune("ec"), 2)
	if length != 2 {
		t.Errorf("前缀长度期望2，得到 %d", length)
	}
	found := false
	for _, cand := range candidates {
		if string(cand) == "ho" {
			found = true
		}
	}
	if !found {
		t.Error("echo应在补全候选中")
	}

	// 已定义的函数也参与补全
	candidates, _ = c.Do([]rune("myf"), 3)
	if len(candidates) == 0 {
		t.Error("函数名应参与补全")
	}

	// 非行首位置不补全
	if cands, _ := c.Do([]rune("echo he"), 7); cands != nil {
		t.Error("参数位置不应补全")
	}
}
