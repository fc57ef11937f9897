package model

// TagScore 单个标签的成绩汇总
type TagScore struct {
	Score   float64 `json:"score"` // 0-100，保留一位小数
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
}

// ScorePrediction 按标签加权的成绩预测
type ScorePrediction struct {
	Overall       float64             `json:"overall"`
	ByTag         map[string]TagScore `json:"byTag"`
	Confidence    string              `json:"confidence"` // high | medium | low
	TotalReviewed int                 `json:"totalReviewed"`
}

// LevelInfo 按累计复习次数查表得到的等级信息
type LevelInfo struct {
	Level        int    `json:"level"`
	Name         string `json:"name"`
	Badge        string `json:"badge"`
	XP           int    `json:"xp"`       // 当前等级内的进度
	XPNeeded     int    `json:"xpNeeded"` // 升到下一级所需跨度
	TotalReviews int    `json:"totalReviews"`
}

// FullReport 每日报告与统计页使用的聚合视图
type FullReport struct {
	TotalQuestions int             `json:"totalQuestions"`
	TotalReviews   int             `json:"totalReviews"`
	StreakDays     int             `json:"streakDays"`
	Level          LevelInfo       `json:"level"`
	StrongCount    int             `json:"strongCount"`
	WeakCount      int             `json:"weakCount"`
	DueToday       int             `json:"dueToday"`
	Prediction     ScorePrediction `json:"prediction"`
	AutoCaptured   int             `json:"autoCaptured"`
}

// StoreStats 题库概况
type StoreStats struct {
	Total        int              `json:"total"`
	Due          int              `json:"due"`
	ByPriority   map[Priority]int `json:"byPriority"`
	TotalReviews int              `json:"totalReviews"`
	AutoCaptured int              `json:"autoCaptured"`
	AvgEase      float64          `json:"avgEase"`
}

// ReviewMode 选题模式的封闭枚举，避免自由字符串分发
type ReviewMode int

const (
	ModeAll ReviewMode = iota
	ModeDue
	ModeWeak
	ModeTag
)

func (m ReviewMode) String() string {
	switch m {
	case ModeDue:
		return "due"
	case ModeWeak:
		return "weak"
	case ModeTag:
		return "tag"
	default:
		return "all"
	}
}

// ParseReviewMode 请求参数到枚举的映射，未知值回退到 all
func ParseReviewMode(s string) ReviewMode {
	switch s {
	case "due":
		return ModeDue
	case "weak":
		return ModeWeak
	case "tag":
		return ModeTag
	default:
		return ModeAll
	}
}
