package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aadilm/taskboard/backend/internal/config"
	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeNotifyDeliver = "notify:deliver"
)

// NotifyTask carries a committed notification out of process for
// delivery. The database row is the source of truth; delivery is
// best-effort and its failure never touches the stored state.
type NotifyTask struct {
	NotificationID uint   `json:"notification_id"`
	UserID         uint   `json:"user_id"`
	Message        string `json:"message"`
	Type           string `json:"type"`
}

// NotifyQueue defines the interface for notification delivery.
type NotifyQueue interface {
	// Enqueue adds a delivery task to the queue
	Enqueue(task *NotifyTask) error
	// IsAsync returns true if the queue delivers asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalNotifyQueue NotifyQueue
	notifyQueueOnce   sync.Once
)

// InitNotifyQueue initializes the global delivery queue based on config.
func InitNotifyQueue(cfg *config.Config) NotifyQueue {
	notifyQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncNotifyQueue(&cfg.Redis)
			if err != nil {
				logger.Warn().Err(err).Msg("redis unavailable, notification delivery falling back to sync mode")
				globalNotifyQueue = NewSyncNotifyQueue()
			} else {
				logger.Info().Str("addr", cfg.Redis.Addr).Msg("async notification queue initialized")
				globalNotifyQueue = queue
			}
		} else {
			logger.Info().Msg("sync notification queue initialized (redis disabled)")
			globalNotifyQueue = NewSyncNotifyQueue()
		}
	})
	return globalNotifyQueue
}

// GetNotifyQueue returns the global delivery queue instance.
func GetNotifyQueue() NotifyQueue {
	return globalNotifyQueue
}

// enqueueNotificationDelivery hands a committed notification row to the
// delivery queue. Callers invoke it after their transaction commits;
// errors are logged and swallowed.
func enqueueNotificationDelivery(n *models.Notification) {
	queue := GetNotifyQueue()
	if queue == nil {
		return
	}

	task := &NotifyTask{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Message:        n.Message,
		Type:           n.Type,
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Uint("notification_id", n.ID).Msg("failed to enqueue notification delivery")
	}
}

// AsyncNotifyQueue implements NotifyQueue using asynq (Redis-based).
type AsyncNotifyQueue struct {
	client *asynq.Client
}

// NewAsyncNotifyQueue creates a new Redis-based delivery queue.
func NewAsyncNotifyQueue(cfg *config.RedisConfig) (*AsyncNotifyQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before trusting the queue.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncNotifyQueue{client: client}, nil
}

func (q *AsyncNotifyQueue) Enqueue(task *NotifyTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeNotifyDeliver, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("notification delivery enqueued")
	return nil
}

func (q *AsyncNotifyQueue) IsAsync() bool {
	return true
}

func (q *AsyncNotifyQueue) Close() error {
	return q.client.Close()
}

// SyncNotifyQueue implements NotifyQueue without Redis: delivery runs
// in a goroutine so the request that produced the notification never
// waits on SMTP.
type SyncNotifyQueue struct {
	processor func(context.Context, *NotifyTask) error
}

func NewSyncNotifyQueue() *SyncNotifyQueue {
	return &SyncNotifyQueue{}
}

// SetProcessor sets the function that delivers tasks.
func (q *SyncNotifyQueue) SetProcessor(processor func(context.Context, *NotifyTask) error) {
	q.processor = processor
}

func (q *SyncNotifyQueue) Enqueue(task *NotifyTask) error {
	if q.processor == nil {
		logger.Debug().Msg("no delivery processor set, notification delivery skipped")
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Warn().Err(err).Uint("notification_id", task.NotificationID).Msg("notification delivery failed")
		}
	}()

	return nil
}

func (q *SyncNotifyQueue) IsAsync() bool {
	return false
}

func (q *SyncNotifyQueue) Close() error {
	return nil
}
