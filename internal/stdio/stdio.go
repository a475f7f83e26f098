// Package stdio 提供沙箱内的标准流捕获
// 解释器从不接触真实的文件描述符，stdout/stderr都写入内存缓冲区，
// stdin是一段可设置的字符串（供管道阶段串联使用）
package stdio

import "bytes"

// Streams 一组捕获流
type Streams struct {
	Out bytes.Buffer // 捕获的标准输出
	Err bytes.Buffer // 捕获的标准错误
	In  string       // 待消费的标准输入
}

// New 创建一组空的捕获流
func New() *Streams {
	return &Streams{}
}

// TakeIn 取走并清空stdin缓冲（一次性消费）
func (s *Streams) TakeIn() string {
	in := s.In
	s.In = ""
	return in
}

// Stdout 返回已捕获的标准输出内容
func (s *Streams) Stdout() string {
	return s.Out.String()
}

// Stderr 返回已捕获的标准错误内容
func (s *Streams) Stderr() string {
	return s.Err.String()
}
