//go:build !mobile

// stub.go - 桌面构建时的占位文件，移动端入口见 mobile.go
package mobile

// Dummy 保证包在非移动端构建时也有导出符号
func Dummy() {}
