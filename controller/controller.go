package controller

import (
	"fede-agent-backend/service/actions"
	"fede-agent-backend/service/learning"
	"fede-agent-backend/service/session"
)

// 控制器共享的服务实例，启动时由 Setup 注入
var (
	sessions  *session.Coordinator
	extractor *actions.Extractor
	pending   *actions.Registry
	learner   *learning.Learner
)

func Setup(c *session.Coordinator, e *actions.Extractor, r *actions.Registry, l *learning.Learner) {
	sessions = c
	extractor = e
	pending = r
	learner = l
}
