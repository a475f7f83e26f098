package vfs

import "testing"

func TestNewDefaults(t *testing.T) {
	fs := New()
	if fs.Getwd() != "/" {
		t.Errorf("初始cwd应为/，得到 %s", fs.Getwd())
	}
	if !fs.IsDir("/") {
		t.Error("根目录应存在")
	}
}

func TestMkdirAndChdir(t *testing.T) {
	fs := New()
	if err := fs.Mkdir("/home"); err != nil {
		t.Fatalf("Mkdir失败: %v", err)
	}
	if err := fs.Chdir("/home"); err != nil {
		t.Fatalf("Chdir失败: %v", err)
	}
	if fs.Getwd() != "/home" {
		t.Errorf("cwd应为/home，得到 %s", fs.Getwd())
	}

	// 相对路径
	if err := fs.Mkdir("user"); err != nil {
		t.Fatalf("相对路径Mkdir失败: %v", err)
	}
	if err := fs.Chdir("user"); err != nil {
		t.Fatalf("相对路径Chdir失败: %v", err)
	}
	if fs.Getwd() != "/home/user" {
		t.Errorf("cwd应为/home/user，得到 %s", fs.Getwd())
	}

	// ..回退
	if err := fs.Chdir(".."); err != nil {
		t.Fatalf("Chdir(..)失败: %v", err)
	}
	if fs.Getwd() != "/home" {
		t.Errorf("cwd应为/home，得到 %s", fs.Getwd())
	}
}

func TestMkdirErrors(t *testing.T) {
	fs := New()
	if err := fs.Mkdir("/a/b"); err == nil {
		t.Error("父目录不存在时Mkdir应报错")
	}
	fs.Mkdir("/a")
	if err := fs.Mkdir("/a"); err == nil {
		t.Error("重复Mkdir应报错")
	}
	if err := fs.Chdir("/nonexistent"); err == nil {
		t.Error("Chdir到不存在的目录应报错")
	}
}

func TestMkdirAll(t *testing.T) {
	fs := New()
	if err := fs.MkdirAll("/a/b/c"); err != nil {
		t.Fatalf("MkdirAll失败: %v", err)
	}
	if !fs.IsDir("/a/b/c") {
		t.Error("/a/b/c应为目录")
	}
	if err := fs.MkdirAll("/a/b/c"); err != nil {
		t.Errorf("重复MkdirAll不应报错: %v", err)
	}
}

func TestWriteAndReadFile(t *testing.T) {
	fs := New()
	if err := fs.WriteFile("/hello.txt", "hello\n"); err != nil {
		t.Fatalf("WriteFile失败: %v", err)
	}
	data, err := fs.ReadFile("/hello.txt")
	if err != nil {
		t.Fatalf("ReadFile失败: %v", err)
	}
	if data != "hello\n" {
		t.Errorf("文件内容错误，期望 'hello\\n'，得到 %q", data)
	}

	// 覆盖写
	fs.WriteFile("/hello.txt", "world\n")
	data, _ = fs.ReadFile("/hello.txt")
	if data != "world\n" {
		t.Errorf("覆盖写失败，得到 %q", data)
	}

	// 追加写
	fs.AppendFile("/hello.txt", "again\n")
	data, _ = fs.ReadFile("/hello.txt")
	if data != "world\nagain\n" {
		t.Errorf("追加写失败，得到 %q", data)
	}
}

func TestReadFileErrors(t *testing.T) {
	fs := New()
	if _, err := fs.ReadFile("/missing"); err == nil {
		t.Error("读取不存在的文件应报错")
	}
	fs.Mkdir("/dir")
	if _, err := fs.ReadFile("/dir"); err == nil {
		t.Error("读取目录应报错")
	}
}

func TestRemove(t *testing.T) {
	fs := New()
	fs.WriteFile("/f", "x")
	if err := fs.Remove("/f"); err != nil {
		t.Fatalf("Remove失败: %v", err)
	}
	if fs.Exists("/f") {
		t.Error("删除后文件不应存在")
	}

	fs.MkdirAll("/d/sub")
	if err := fs.Remove("/d"); err == nil {
		t.Error("删除非空目录应报错")
	}
	if err := fs.RemoveAll("/d"); err != nil {
		t.Errorf("RemoveAll失败: %v", err)
	}
	if fs.Exists("/d") {
		t.Error("RemoveAll后目录不应存在")
	}
}

func TestList(t *testing.T) {
	fs := New()
	fs.Mkdir("/dir")
	fs.WriteFile("/b.txt", "")
	fs.WriteFile("/a.txt", "")
	names, err := fs.List("/")
	if err != nil {
		t.Fatalf("List失败: %v", err)
	}
	want := []string{"a.txt", "b.txt", "dir/"}
	if len(names) != len(want) {
		t.Fatalf("条目数错误，期望 %d，得到 %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("条目[%d]错误，期望 %s，得到 %s", i, want[i], names[i])
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/a/b/../c", "/a/c"},
		{"a//b", "a/b"},
		{"", "."},
		{"/", "/"},
		{"./x", "x"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q，期望 %q", tt.in, got, tt.want)
		}
	}
}
