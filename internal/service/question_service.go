package service

import (
	"strings"
	"sync"
	"time"

	"quiz_master_backend/internal/cache"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/monitoring"
)

// QuestionService 题目编排层：持久化、每题串行的复习提交、
// 快照缓存的同步失效都收口在这里。
type QuestionService struct {
	Repo      *repository.QuestionRepository
	Scheduler *SchedulerService
	Selector  *SelectorService
	Analytics *AnalyticsService
	Cache     *cache.QuestionCache

	// 按题目id串行化复习提交，重试的网络请求不会重复施加SM-2更新
	locks sync.Map
}

func NewQuestionService(
	repo *repository.QuestionRepository,
	scheduler *SchedulerService,
	selector *SelectorService,
	analytics *AnalyticsService,
	cacheTTL time.Duration,
) *QuestionService {
	s := &QuestionService{
		Repo:      repo,
		Scheduler: scheduler,
		Selector:  selector,
		Analytics: analytics,
	}
	s.Cache = cache.NewQuestionCache(cacheTTL, repo.FindAll)
	return s
}

func (s *QuestionService) lockFor(id uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Create 入库一条新题并同步失效快照
func (s *QuestionService) Create(q *model.Question) (uint, error) {
	if strings.TrimSpace(q.Text) == "" {
		return 0, util.ErrEmptyQuestionText
	}
	if q.CorrectIndex < -1 || q.CorrectIndex >= len(q.Options) {
		q.CorrectIndex = -1
	}
	if q.Priority == "" {
		q.Priority = model.PriorityNormal
	}
	if q.EaseFactor == 0 {
		q.EaseFactor = InitialEaseFactor
	}

	if err := s.Repo.Create(q); err != nil {
		return 0, err
	}
	s.Cache.Invalidate()
	return q.ID, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// AddTag 标签集合只增不减；重复添加是幂等的
func (s *QuestionService) AddTag(id uint, tag string) (*model.Question, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, util.ErrInvalidTag
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !q.HasTag(tag) {
		q.Tags = append(q.Tags, tag)
		if err := s.Repo.Update(q); err != nil {
			return nil, err
		}
		s.Cache.Invalidate()
	}
	return q, nil
}

func (s *QuestionService) Delete(id uint) error {
	ok, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrQuestionNotFound
	}
	s.Cache.Invalidate()
	return nil
}

// List 最近的题目，id 降序
func (s *QuestionService) List(limit int) ([]model.Question, error) {
	snapshot, err := s.Cache.Snapshot()
	if err != nil {
		return nil, err
	}
	// 快照按 id 升序，倒序取尾部
	out := make([]model.Question, 0, limit)
	for i := len(snapshot) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, snapshot[i])
	}
	return out, nil
}

func (s *QuestionService) Search(term string) ([]model.Question, error) {
	return s.Repo.Search(term, 20)
}

func (s *QuestionService) Tags() ([]string, error) {
	return s.Repo.AllTags()
}

func (s *QuestionService) Stats() (*model.StoreStats, error) {
	return s.Repo.Stats(time.Now().UTC())
}

func (s *QuestionService) Due(limit int) ([]model.Question, error) {
	return s.Repo.FindDue(time.Now().UTC(), limit)
}

func (s *QuestionService) Weakest(limit int) ([]model.Question, error) {
	return s.Repo.FindWeakest(limit)
}

// SubmitReview 一次复习提交。同一题目的并发提交按 id 串行，
// 调度更新要么整体落库要么完全不落。
func (s *QuestionService) SubmitReview(id uint, quality int) (*model.Question, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.Scheduler.Review(*q, quality, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Update(&updated); err != nil {
		return nil, err
	}
	s.Cache.Invalidate()

	outcome := "success"
	if quality <= qualityFailureMax {
		outcome = "failure"
	}
	monitoring.ReviewCounter.WithLabelValues(outcome).Inc()

	return &updated, nil
}

// SubmitAnswer 交互式作答：选项正确计 quality=5，错误计 0
func (s *QuestionService) SubmitAnswer(id uint, optionIndex int) (*model.Question, bool, error) {
	q, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, false, util.ErrInvalidOption
	}

	correct := q.CorrectIndex != -1 && optionIndex == q.CorrectIndex
	updated, err := s.SubmitReview(id, QualityFromAnswer(correct))
	if err != nil {
		return nil, false, err
	}
	return updated, correct, nil
}

// NextQuestion 在缓存快照上选下一题；excludeID 用来避免刚答完的题立即重现
func (s *QuestionService) NextQuestion(mode model.ReviewMode, tag string, excludeID uint) (*model.Question, error) {
	snapshot, err := s.Cache.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.Selector.Next(snapshot, mode, tag, excludeID, time.Now().UTC()), nil
}

func (s *QuestionService) Predict() (model.ScorePrediction, error) {
	snapshot, err := s.Cache.Snapshot()
	if err != nil {
		return model.ScorePrediction{}, err
	}
	return s.Analytics.PredictScore(snapshot), nil
}

func (s *QuestionService) Report() (model.FullReport, error) {
	snapshot, err := s.Cache.Snapshot()
	if err != nil {
		return model.FullReport{}, err
	}
	return s.Analytics.FullReport(snapshot, time.Now().UTC()), nil
}

func (s *QuestionService) Level() (model.LevelInfo, error) {
	snapshot, err := s.Cache.Snapshot()
	if err != nil {
		return model.LevelInfo{}, err
	}
	total := 0
	for _, q := range snapshot {
		total += q.TotalReviews
	}
	return s.Analytics.LevelInfo(total), nil
}
