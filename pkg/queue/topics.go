// Package queue 定义消息主题常量与分组，供发布/订阅使用.
package queue

// 主题命名规范：rv.<域>.<动作/状态>，尽量稳定且向后兼容.
// 域：recording(录制生命周期)、cleanup(保留期清理)
// 状态：started(开始)、ready(可用)、deleted(删除)、expiring(即将过期)

const (
	// 录制生命周期领域.
	TopicRecordingStarted = "rv.recording.started" // 录制已开始，记录已落库
	TopicRecordingReady   = "rv.recording.ready"   // 录制处理完成，可供下载
	TopicRecordingDeleted = "rv.recording.deleted" // 录制被删除（人工或到期），资产已移除
	TopicRecordingFailed  = "rv.recording.failed"  // 录制处理失败（如上传中断）

	// 保留期领域.
	TopicRecordingExpiring = "rv.recording.expiring" // 一批录制即将到期，供下游发通知
	TopicCleanupCompleted  = "rv.cleanup.completed"  // 一轮到期清理结束，附带运行统计
)

// RecordingTopics 录制生命周期主题集合，用于批量订阅.
var RecordingTopics = []string{
	TopicRecordingStarted, TopicRecordingReady,
	TopicRecordingDeleted, TopicRecordingFailed,
	TopicRecordingExpiring,
}
