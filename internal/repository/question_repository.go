package repository

import (
	"errors"
	"sort"
	"time"

	"quiz_master_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.NextReview.IsZero() {
		// 新题立即可复习
		q.NextReview = q.CreatedAt
	}
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id uint) (bool, error) {
	res := r.DB.Delete(&model.Question{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindDue(now time.Time, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("next_review <= ?", now).
		Order("next_review").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindWeakest(limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("total_reviews > 0").
		Order("ease_factor ASC, wrong_count DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Search(term string, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("text LIKE ?", "%"+term+"%").
		Order("id DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// FindByTag 标签存在JSON列里，没有原生索引，在应用侧过滤
func (r *QuestionRepository) FindByTag(tag string) ([]model.Question, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.Question, 0)
	for _, q := range all {
		if q.HasTag(tag) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *QuestionRepository) AllTags() ([]string, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, q := range all {
		for _, t := range q.Tags {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *QuestionRepository) Stats(now time.Time) (*model.StoreStats, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &model.StoreStats{
		ByPriority: map[model.Priority]int{
			model.PriorityUrgent: 0,
			model.PriorityNormal: 0,
			model.PriorityLow:    0,
		},
		AvgEase: 2.5,
	}

	stats.Total = len(all)
	var easeSum float64
	for _, q := range all {
		if q.IsDue(now) {
			stats.Due++
		}
		stats.ByPriority[q.Priority]++
		stats.TotalReviews += q.TotalReviews
		if q.AutoCaptured {
			stats.AutoCaptured++
		}
		easeSum += q.EaseFactor
	}
	if stats.Total > 0 {
		stats.AvgEase = round2(easeSum / float64(stats.Total))
	}

	return stats, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// IsNotFound gorm 的 record-not-found 判定
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
