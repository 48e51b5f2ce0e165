// Package health 监控收藏计数所在的Redis实例。
// Redis重启后内存里的计数和排行会清空，检查器通过run_id的变化
// 发现重启，并用数据库里的快照重建缓存。
package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/startup"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// getRedisRunID 读取Redis实例的run_id。
// 每次进程重启run_id都会变，据此区分"连不上"和"重启过"。
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("INFO server输出中没有run_id")
	}
	return matches[1], nil
}

// InitializeRunID 在启动时登记基准run_id。
// 拿不到说明计数存储根本不可用，直接终止启动。
func InitializeRunID() {
	runID, err := getRedisRunID()
	if err != nil {
		panic(fmt.Sprintf("无法获取Redis run_id，收藏计数存储不可用: %v", err))
	}
	database.SetInitialRunID(runID)
	fmt.Printf("健康检查: 已登记Redis run_id %s\n", runID)
}

// triggerAtomicRebuild 在检测到重启后重建计数缓存。
// 重建以文章表的收藏快照为种子；重建期间若Redis又一次重启，
// 刚写入的计数可能已经丢失，此时放弃本次重建，等下一轮检查重来。
func triggerAtomicRebuild(idBeforeRebuild string) bool {
	fmt.Println("健康检查: 检测到Redis重启，正在从快照重建收藏计数...")
	if err := startup.RebuildCache(); err != nil {
		fmt.Printf("健康检查错误: 收藏计数重建失败: %v\n", err)
		return false
	}

	idAfterRebuild, err := getRedisRunID()
	if err != nil {
		fmt.Println("健康检查错误: 重建后无法连接Redis，本次重建作废。")
		return false
	}
	if idBeforeRebuild != idAfterRebuild {
		fmt.Printf("健康检查错误: 重建期间Redis再次重启 (run_id %s -> %s)，本次重建作废。\n", idBeforeRebuild, idAfterRebuild)
		return false
	}

	fmt.Println("健康检查: 收藏计数重建完成。")
	return true
}

// PerformCheck 执行一轮检查：确认可达、比对run_id、必要时重建。
func PerformCheck() {
	currentRunID, err := getRedisRunID()
	if err != nil {
		database.UpdateStatus(false, "")
		return
	}

	if currentRunID == database.GetLastKnownRunID() {
		database.UpdateStatus(true, currentRunID)
		return
	}

	// run_id变了，缓存里的计数已随旧进程一起丢失
	if triggerAtomicRebuild(currentRunID) {
		database.UpdateStatus(true, currentRunID)
	} else {
		database.UpdateStatus(false, "")
	}
}

// StartRedisHealthCheck 周期性地执行检查，应在独立Goroutine中运行。
// 用单个Timer串行驱动，保证重建没结束前不会叠加下一轮检查。
func StartRedisHealthCheck() {
	fmt.Println("健康检查: 收藏计数监控已启动。")
	timer := time.NewTimer(checkInterval)
	defer timer.Stop()

	for {
		<-timer.C
		PerformCheck()
		timer.Reset(checkInterval)
	}
}
