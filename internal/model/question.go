package model

import (
	"time"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Question 唯一的持久化实体：一条带SM-2调度状态的复习题
type Question struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	Options       StringList `gorm:"type:json" json:"options"`
	// -1 表示未知。不能用列默认值：0 是合法下标，gorm 会把零值替换成默认值
	CorrectIndex  int        `json:"correctIndex"`
	Explanation   string     `gorm:"type:text" json:"explanation"`
	Tags          StringList `gorm:"type:json" json:"tags"`
	Priority      Priority   `gorm:"size:10;default:'normal';index" json:"priority"`
	SourceChannel string     `gorm:"size:255" json:"sourceChannel"`
	AutoCaptured  bool       `gorm:"default:false" json:"autoCaptured"`
	MediaType     string     `gorm:"size:32" json:"mediaType,omitempty"` // 图片仅按说明文字采集
	MediaID       string     `gorm:"size:255" json:"mediaID,omitempty"`

	// 调度状态，只由 SchedulerService 写入
	EaseFactor   float64    `gorm:"default:2.5" json:"easeFactor"`
	Interval     float64    `gorm:"default:0" json:"interval"` // 距下次复习的天数
	Repetitions  int        `gorm:"default:0" json:"repetitions"`
	NextReview   time.Time  `gorm:"index" json:"nextReview"`
	LastReview   *time.Time `json:"lastReview,omitempty"`
	TotalReviews int        `gorm:"default:0" json:"totalReviews"`
	CorrectCount int        `gorm:"default:0" json:"correctCount"`
	WrongCount   int        `gorm:"default:0" json:"wrongCount"`
	Streak       int        `gorm:"default:0" json:"streak"` // 连续答对次数
	ReviewDates  StringList `gorm:"type:json" json:"reviewDates"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewQuestion 构造正确答案未知的新题。直接写字面量会把
// CorrectIndex 留成零值，而 0 是合法下标，所以入库请走这里。
func NewQuestion(text string) *Question {
	return &Question{Text: text, CorrectIndex: -1}
}

func (Question) TableName() string {
	return "questions"
}

// IsDue next_review 不晚于给定时刻即视为到期
func (q *Question) IsDue(now time.Time) bool {
	return !q.NextReview.IsZero() && !q.NextReview.After(now)
}

// WrongRatio 错误率，从未复习过的题目记 0
func (q *Question) WrongRatio() float64 {
	if q.TotalReviews == 0 {
		return 0
	}
	return float64(q.WrongCount) / float64(q.TotalReviews)
}

// HasTag 标签精确匹配
func (q *Question) HasTag(tag string) bool {
	return q.Tags.Contains(tag)
}
