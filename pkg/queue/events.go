package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishRecordingStarted 发布 rv.recording.started 事件。
// 录制记录落库后通知下游流程（如实时看板、审计）。
func PublishRecordingStarted(pub message.Publisher, payload RecordingStartedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicRecordingStarted, payload, opts...)
}

// PublishRecordingReady 发布 rv.recording.ready 事件。
func PublishRecordingReady(pub message.Publisher, payload RecordingReadyPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicRecordingReady, payload, opts...)
}

// PublishRecordingFailed 发布 rv.recording.failed 事件。
func PublishRecordingFailed(pub message.Publisher, payload RecordingFailedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicRecordingFailed, payload, opts...)
}

// PublishRecordingDeleted 发布 rv.recording.deleted 事件。
func PublishRecordingDeleted(pub message.Publisher, payload RecordingDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicRecordingDeleted, payload, opts...)
}

// PublishRecordingExpiring 发布 rv.recording.expiring 事件，供通知服务消费。
func PublishRecordingExpiring(pub message.Publisher, payload RecordingExpiringPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicRecordingExpiring, payload, opts...)
}

// PublishCleanupCompleted 发布 rv.cleanup.completed 事件。
func PublishCleanupCompleted(pub message.Publisher, payload CleanupCompletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCleanupCompleted, payload, opts...)
}

// ParseRecordingDeleted 将 Watermill 消息解析为强类型 Envelope。
func ParseRecordingDeleted(msg *message.Message) (Message[RecordingDeletedPayload], error) {
	return ParseWatermillMessage[RecordingDeletedPayload](msg)
}

func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}
