package queue

import (
	"socialdeck/internal/repository"
	"socialdeck/internal/service"
)

type Queue struct {
	sp         repository.ScheduledPostRepository
	sa         repository.SocialAccountRepository
	publishers map[string]service.Publisher
	alerts     service.AlertService
}

func NewQueue(
	sp repository.ScheduledPostRepository,
	sa repository.SocialAccountRepository,
	publishers map[string]service.Publisher,
	alerts service.AlertService) *Queue {
	return &Queue{
		sp:         sp,
		sa:         sa,
		publishers: publishers,
		alerts:     alerts,
	}
}
