//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动端方式运行（触摸提示、全屏布局）
// 桌面端编译时默认 false，设置 TROLLEY_MOBILE_EMULATE=1 可在本地模拟
func IsMobile() bool {
	return os.Getenv("TROLLEY_MOBILE_EMULATE") == "1"
}
