//go:build mobile

package utils

// IsMobile 移动端编译时恒为 true
func IsMobile() bool {
	return true
}
