// Package types 定义共享的基础类型
package types

// ContentType 定义轨道上内容实体的类型
type ContentType int

const (
	// ContentUnknown 未知内容类型
	ContentUnknown ContentType = iota

	// ContentPerson 行人（被撞扣分，避开加分）
	ContentPerson

	// 障碍物（撞上即游戏结束）
	ContentTrolleyColor // 停放的彩色电车
	ContentRock         // 落石
	ContentBuffer       // 车挡
)

// BarrierPalette 障碍物外观调色板，生成障碍物时从中均匀随机选取
var BarrierPalette = []ContentType{
	ContentTrolleyColor,
	ContentRock,
	ContentBuffer,
}

// contentTypeStringMap 内容类型到配置字符串的映射
var contentTypeStringMap = map[ContentType]string{
	ContentPerson:       "person",
	ContentTrolleyColor: "trolley-color",
	ContentRock:         "rock",
	ContentBuffer:       "buffer",
}

// stringToContentTypeMap 配置字符串到内容类型的反向映射
var stringToContentTypeMap map[string]ContentType

func init() {
	stringToContentTypeMap = make(map[string]ContentType)
	for ct, s := range contentTypeStringMap {
		stringToContentTypeMap[s] = ct
	}
}

// String 返回内容类型的字符串表示
func (c ContentType) String() string {
	if s, ok := contentTypeStringMap[c]; ok {
		return s
	}
	return "unknown"
}

// ContentTypeFromString 将配置字符串转换为 ContentType
func ContentTypeFromString(s string) ContentType {
	if ct, ok := stringToContentTypeMap[s]; ok {
		return ct
	}
	return ContentUnknown
}

// IsBarrier 判断是否为障碍物
func (c ContentType) IsBarrier() bool {
	switch c {
	case ContentTrolleyColor, ContentRock, ContentBuffer:
		return true
	default:
		return false
	}
}

// IsPerson 判断是否为行人
func (c ContentType) IsPerson() bool {
	return c == ContentPerson
}
