package database

import (
	"fmt"
	"sync"
)

// statusManager 记录收藏计数所依赖的Redis是否可用，
// 以及最近一次确认健康时的服务器run_id。
// 健康检查器写入，快照调度读取。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
	lastKnownRunID string
}

// 启动流程会先确认Redis可达才继续，所以初始视为健康
var globalStatus = &statusManager{
	isRedisHealthy: true,
}

// IsRedisHealthy 报告计数存储当前是否可用。
// 快照调度在不可用期间会跳过本轮，避免把空数据写回数据库。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// SetInitialRunID 登记启动时观察到的Redis run_id，作为后续重启检测的基准。
func SetInitialRunID(runID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.lastKnownRunID = runID
}

// UpdateStatus 更新计数存储的可用状态。
// 状态翻转时打一条日志；run_id只在健康时更新，
// 保证下一轮检查仍能察觉到期间发生过的重启。
func UpdateStatus(isHealthy bool, newRunID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			fmt.Println("健康检查: 收藏计数存储恢复 [可用]")
		} else {
			fmt.Println("健康检查警告: 收藏计数存储进入 [不可用]")
		}
	}

	if isHealthy {
		globalStatus.lastKnownRunID = newRunID
	}
}

// GetLastKnownRunID 返回最近一次健康检查记下的run_id。
func GetLastKnownRunID() string {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.lastKnownRunID
}
