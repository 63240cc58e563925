package queue

import (
	"github.com/vestra-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCreated 订单创建事件任务
	TaskOrderCreated = constants.TaskOrderCreated
	// TaskOrderStatusUpdated 订单状态变更事件任务
	TaskOrderStatusUpdated = constants.TaskOrderStatusUpdated
)

var topicTasks = map[string]string{
	constants.EventOrderCreated:       TaskOrderCreated,
	constants.EventOrderStatusUpdated: TaskOrderStatusUpdated,
}

// TaskTypeForTopic 事件主题映射为任务类型，未登记的主题以 "event:" 前缀透传
func TaskTypeForTopic(topic string) string {
	if taskType, ok := topicTasks[topic]; ok {
		return taskType
	}
	return "event:" + topic
}

// NewEventTask 以已编码的事件体创建任务
func NewEventTask(taskType string, body []byte) *asynq.Task {
	return asynq.NewTask(taskType, body)
}
