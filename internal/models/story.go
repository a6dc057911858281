package models

import "time"

// Статусы истории в процессе модерации.
const (
	StoryStatusPending   = "pending_review"
	StoryStatusPublished = "published"
	StoryStatusRejected  = "rejected"
)

// Story представляет историю, отправленную родителем на модерацию.
// RewardGranted выставляется вместе с переходом в published и гарантирует,
// что начисление монет за одобрение происходит не более одного раза.
type Story struct {
	ID            string // UUID истории
	AuthorUID     string
	Title         string
	Status        string // pending_review | published | rejected
	RewardGranted bool
	CreatedAt     time.Time
	ReviewedAt    *time.Time
}

// SubmitStoryRequest используется для приёма новой истории из JSON-запроса.
type SubmitStoryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}
