// Package learning 在用户确认动作后异步记录其显著参数，
// 达到阈值的取值会作为候选默认值浮出，但永远不会被静默应用。
package learning

import (
	"log/slog"
	"sync"

	"fede-agent-backend/dao"
	"fede-agent-backend/model"
	"fede-agent-backend/service/actions"
)

const (
	taskChanSize = 100
	workerNum    = 4
)

// Task 一条待记录的模式观测
type Task struct {
	UserID       int64
	PatternKey   string
	PatternValue string
}

// Learner 通道加工作池的模式记录器，只接收带确认凭据的投递
type Learner struct {
	threshold int
	enabled   bool

	taskChan chan Task
	wg       sync.WaitGroup

	closeOnce sync.Once
}

func NewLearner(threshold int, enabled bool) *Learner {
	return &Learner{
		threshold: threshold,
		enabled:   enabled,
		taskChan:  make(chan Task, taskChanSize),
	}
}

func (l *Learner) Run() {
	for i := 1; i <= workerNum; i++ {
		l.wg.Add(1)
		go l.work(i)
	}
}

// RecordConfirmed 从确认凭据中抽取显著参数并投递记录任务。
// 凭据是唯一入口：没有用户确认就没有学习。
func (l *Learner) RecordConfirmed(confirmation *actions.Confirmation) {
	if confirmation == nil || !l.enabled {
		return
	}

	for _, task := range salientFields(confirmation) {
		select {
		case l.taskChan <- task:
		default:
			// 队列满时放弃该观测，学习信号允许有损
			slog.Warn("Learning queue full, dropping observation",
				"user_id", task.UserID,
				"pattern_key", task.PatternKey)
		}
	}
}

// Suggestions 返回达到阈值的候选默认值
func (l *Learner) Suggestions(userID int64, patternKey string) ([]model.UserPattern, error) {
	return dao.GetPatternSuggestions(userID, patternKey, l.threshold)
}

// ConfirmDefault 用户显式批准后将取值提升为默认。单向，无撤销。
func (l *Learner) ConfirmDefault(userID int64, patternKey, patternValue string) error {
	return dao.ConfirmPatternDefault(userID, patternKey, patternValue)
}

// Shutdown 停止接收新任务并等待队列排空
func (l *Learner) Shutdown() {
	l.closeOnce.Do(func() {
		close(l.taskChan)
	})
	l.wg.Wait()
}

func (l *Learner) work(id int) {
	defer l.wg.Done()
	slog.Info("Starting learning worker", "worker_id", id)

	for task := range l.taskChan {
		count, err := dao.TrackPattern(task.UserID, task.PatternKey, task.PatternValue)
		if err != nil {
			slog.Error("Failed to track pattern",
				"user_id", task.UserID,
				"pattern_key", task.PatternKey,
				"err", err)
			continue
		}

		if count == l.threshold {
			slog.Info("Pattern reached suggestion threshold",
				"user_id", task.UserID,
				"pattern_key", task.PatternKey,
				"pattern_value", task.PatternValue,
				"count", count)
		}
	}

	slog.Info("Learning worker exit", "worker_id", id)
}

// salientFields 选出值得学习的动作参数
func salientFields(confirmation *actions.Confirmation) []Task {
	var tasks []Task
	userID := confirmation.UserID

	switch params := confirmation.Action.Params.(type) {
	case model.EmailParams:
		for _, addr := range params.ExtractedEmails {
			tasks = append(tasks, Task{
				UserID:       userID,
				PatternKey:   "email_recipient",
				PatternValue: addr,
			})
		}
	case model.CalendarParams:
		if params.SuggestedAttendee != "" {
			tasks = append(tasks, Task{
				UserID:       userID,
				PatternKey:   "meeting_attendee",
				PatternValue: params.SuggestedAttendee,
			})
		}
		for _, t := range params.ExtractedTimes {
			tasks = append(tasks, Task{
				UserID:       userID,
				PatternKey:   "meeting_time",
				PatternValue: t,
			})
		}
	}

	return tasks
}
