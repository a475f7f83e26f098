// Package vfs 提供纯内存的虚拟文件系统
// cd/pwd/cat/mkdir等内置命令只操作这棵内存树，从不触碰宿主机文件系统
package vfs

import (
	"fmt"
	"sort"
	"strings"
)

// node 文件树节点，目录持有children，文件持有data
type node struct {
	dir      bool
	data     string
	children map[string]*node
}

func newDir() *node {
	return &node{dir: true, children: make(map[string]*node)}
}

// FS 虚拟文件系统，根目录为/，带当前工作目录
type FS struct {
	root *node
	cwd  string
}

// New 创建只含根目录的虚拟文件系统，cwd为/
func New() *FS {
	return &FS{root: newDir(), cwd: "/"}
}

// Getwd 返回当前工作目录
func (fs *FS) Getwd() string {
	return fs.cwd
}

// Chdir 切换当前工作目录
func (fs *FS) Chdir(p string) error {
	abs := resolve(fs.cwd, p)
	n := fs.lookup(abs)
	if n == nil {
		return fmt.Errorf("目录不存在: %s", p)
	}
	if !n.dir {
		return fmt.Errorf("不是目录: %s", p)
	}
	fs.cwd = abs
	return nil
}

// Mkdir 创建单级目录，父目录必须已存在
func (fs *FS) Mkdir(p string) error {
	abs := resolve(fs.cwd, p)
	parent, name := fs.parentOf(abs)
	if parent == nil {
		return fmt.Errorf("父目录不存在: %s", p)
	}
	if name == "" {
		return fmt.Errorf("无效路径: %s", p)
	}
	if _, exists := parent.children[name]; exists {
		return fmt.Errorf("文件已存在: %s", p)
	}
	parent.children[name] = newDir()
	return nil
}

// MkdirAll 递归创建目录，已存在的目录不报错
func (fs *FS) MkdirAll(p string) error {
	abs := resolve(fs.cwd, p)
	n := fs.root
	for _, part := range splitPath(abs) {
		child, ok := n.children[part]
		if !ok {
			child = newDir()
			n.children[part] = child
		} else if !child.dir {
			return fmt.Errorf("不是目录: %s", part)
		}
		n = child
	}
	return nil
}

// WriteFile 写入文件内容（覆盖），父目录必须已存在
func (fs *FS) WriteFile(p, data string) error {
	return fs.setFile(p, data, false)
}

// AppendFile 追加文件内容，文件不存在时创建
func (fs *FS) AppendFile(p, data string) error {
	return fs.setFile(p, data, true)
}

func (fs *FS) setFile(p, data string, appendMode bool) error {
	abs := resolve(fs.cwd, p)
	parent, name := fs.parentOf(abs)
	if parent == nil {
		return fmt.Errorf("父目录不存在: %s", p)
	}
	if name == "" {
		return fmt.Errorf("无效路径: %s", p)
	}
	existing, ok := parent.children[name]
	if ok {
		if existing.dir {
			return fmt.Errorf("是一个目录: %s", p)
		}
		if appendMode {
			existing.data += data
		} else {
			existing.data = data
		}
		return nil
	}
	parent.children[name] = &node{data: data}
	return nil
}

// ReadFile 读取文件内容
func (fs *FS) ReadFile(p string) (string, error) {
	n := fs.lookup(resolve(fs.cwd, p))
	if n == nil {
		return "", fmt.Errorf("文件不存在: %s", p)
	}
	if n.dir {
		return "", fmt.Errorf("是一个目录: %s", p)
	}
	return n.data, nil
}

// Touch 创建空文件，已存在时不做任何事
func (fs *FS) Touch(p string) error {
	abs := resolve(fs.cwd, p)
	if fs.lookup(abs) != nil {
		return nil
	}
	return fs.setFile(p, "", false)
}

// Remove 删除文件或空目录
func (fs *FS) Remove(p string) error {
	abs := resolve(fs.cwd, p)
	parent, name := fs.parentOf(abs)
	if parent == nil || name == "" {
		return fmt.Errorf("文件不存在: %s", p)
	}
	n, ok := parent.children[name]
	if !ok {
		return fmt.Errorf("文件不存在: %s", p)
	}
	if n.dir && len(n.children) > 0 {
		return fmt.Errorf("目录非空: %s", p)
	}
	delete(parent.children, name)
	return nil
}

// RemoveAll 递归删除文件或目录
func (fs *FS) RemoveAll(p string) error {
	abs := resolve(fs.cwd, p)
	parent, name := fs.parentOf(abs)
	if parent == nil || name == "" {
		return fmt.Errorf("文件不存在: %s", p)
	}
	if _, ok := parent.children[name]; !ok {
		return fmt.Errorf("文件不存在: %s", p)
	}
	delete(parent.children, name)
	return nil
}

// Exists 判断路径是否存在
func (fs *FS) Exists(p string) bool {
	return fs.lookup(resolve(fs.cwd, p)) != nil
}

// IsDir 判断路径是否为已存在的目录
func (fs *FS) IsDir(p string) bool {
	n := fs.lookup(resolve(fs.cwd, p))
	return n != nil && n.dir
}

// List 列出目录下的条目名，按字典序排序，目录名带/后缀
func (fs *FS) List(p string) ([]string, error) {
	n := fs.lookup(resolve(fs.cwd, p))
	if n == nil {
		return nil, fmt.Errorf("目录不存在: %s", p)
	}
	if !n.dir {
		return []string{NormalizePath(p)}, nil
	}
	names := make([]string, 0, len(n.children))
	for name, child := range n.children {
		if child.dir {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// lookup 按绝对路径查找节点，不存在返回nil
func (fs *FS) lookup(abs string) *node {
	n := fs.root
	for _, part := range splitPath(abs) {
		if !n.dir {
			return nil
		}
		child, ok := n.children[part]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// parentOf 返回绝对路径的父目录节点和最后一级名称
// 父路径不存在或不是目录时返回(nil, "")
func (fs *FS) parentOf(abs string) (*node, string) {
	parts := splitPath(abs)
	if len(parts) == 0 {
		return nil, ""
	}
	parentPath := "/" + strings.Join(parts[:len(parts)-1], "/")
	parent := fs.lookup(parentPath)
	if parent == nil || !parent.dir {
		return nil, ""
	}
	return parent, parts[len(parts)-1]
}
