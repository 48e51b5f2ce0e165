package favorite

import "errors"

// 收藏子系统对外暴露的错误分类。
// 协调器保证到达API层的所有失败都已归入其中之一。
var (
	// ErrAuthRequired 表示请求没有可用的用户身份，未尝试任何写入。
	ErrAuthRequired = errors.New("favorite: 需要登录")

	// ErrTogglePending 表示同一(用户,文章)对已有一次切换在途，
	// 本次请求被直接拒绝，防止连点产生重复增量。
	ErrTogglePending = errors.New("favorite: 上一次操作尚未完成")

	// ErrTransientStore 表示计数存储的网络或竞争类故障，
	// 重试由用户再次切换触发，服务端不自动重试。
	ErrTransientStore = errors.New("favorite: 计数服务暂时不可用")

	// ErrPersistence 表示引用完整性类故障，例如用户记录不存在。
	ErrPersistence = errors.New("favorite: 持久化失败")
)
