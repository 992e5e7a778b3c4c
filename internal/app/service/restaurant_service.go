package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/arch-spatula/jmc/internal/app/model"
	"github.com/arch-spatula/jmc/internal/app/repository"
	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/internal/workbook"
	"github.com/arch-spatula/jmc/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("식당을 찾을 수 없습니다")
	ErrRestaurantExists   = errors.New("이미 등록된 식당 이름입니다")
	ErrInvalidRestaurant  = errors.New("invalid restaurant")
	ErrInvalidBatch       = errors.New("invalid batch")
)

// ValidationError 검증 실패. Section이 있으면 일괄 저장의 몇 번째 항목인지 표시한다
type ValidationError struct {
	Section string // new, update
	Index   int
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Section == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s[%d]: %v", e.Section, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	if e.Section == "" {
		return []error{ErrInvalidRestaurant, e.Err}
	}
	return []error{ErrInvalidBatch, e.Err}
}

// RestaurantCache 목록 캐시. 쓰기 작업 후에는 항상 무효화된다
type RestaurantCache interface {
	Get(ctx context.Context) ([]sheet.Record, bool)
	Set(ctx context.Context, records []sheet.Record)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Get(context.Context) ([]sheet.Record, bool) { return nil, false }
func (noopCache) Set(context.Context, []sheet.Record)        {}
func (noopCache) Invalidate(context.Context)                 {}

type RestaurantService interface {
	GetAll(ctx context.Context) ([]sheet.Record, error)
	GetByName(ctx context.Context, name string) (*sheet.Record, error)
	Create(ctx context.Context, rec sheet.Record) error
	Update(ctx context.Context, name string, rec sheet.Record) error
	Delete(ctx context.Context, name string) error
	SaveBatch(ctx context.Context, payload sheet.Payload) error
	Recommend(ctx context.Context) (*sheet.Record, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, records []sheet.Record) (repository.BatchResult, error)
}

type restaurantService struct {
	repo  repository.RestaurantRepository
	cache RestaurantCache
	pick  func(n int) int
}

// NewRestaurantService creates the service; cache may be nil
func NewRestaurantService(repo repository.RestaurantRepository, cache RestaurantCache) RestaurantService {
	if cache == nil {
		cache = noopCache{}
	}
	return &restaurantService{
		repo:  repo,
		cache: cache,
		pick:  rand.IntN,
	}
}

func (s *restaurantService) GetAll(ctx context.Context) ([]sheet.Record, error) {
	if records, ok := s.cache.Get(ctx); ok {
		logger.Debug("Restaurant list served from cache", map[string]interface{}{
			"count": len(records),
		})
		return records, nil
	}

	restaurants, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	records := model.ToRecords(restaurants)
	s.cache.Set(ctx, records)
	return records, nil
}

func (s *restaurantService) GetByName(ctx context.Context, name string) (*sheet.Record, error) {
	restaurant, err := s.repo.FindByName(name)
	if err != nil {
		return nil, translateRepoError(err)
	}
	rec := restaurant.ToRecord()
	return &rec, nil
}

func (s *restaurantService) Create(ctx context.Context, rec sheet.Record) error {
	restaurant := model.FromRecord(rec)
	if err := restaurant.Validate(); err != nil {
		return &ValidationError{Err: err}
	}

	if err := s.repo.Create(&restaurant); err != nil {
		return translateRepoError(err)
	}
	s.cache.Invalidate(ctx)

	logger.Info("Restaurant created", map[string]interface{}{
		"name": restaurant.Name,
	})
	return nil
}

func (s *restaurantService) Update(ctx context.Context, name string, rec sheet.Record) error {
	restaurant := model.FromRecord(rec)
	if err := restaurant.Validate(); err != nil {
		return &ValidationError{Err: err}
	}

	if err := s.repo.Update(name, &restaurant); err != nil {
		return translateRepoError(err)
	}
	s.cache.Invalidate(ctx)

	logger.Info("Restaurant updated", map[string]interface{}{
		"name":     name,
		"new_name": restaurant.Name,
	})
	return nil
}

func (s *restaurantService) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(name); err != nil {
		return translateRepoError(err)
	}
	s.cache.Invalidate(ctx)

	logger.Info("Restaurant deleted", map[string]interface{}{
		"name": name,
	})
	return nil
}

// SaveBatch validates every record first; one invalid record rejects the whole batch
func (s *restaurantService) SaveBatch(ctx context.Context, payload sheet.Payload) error {
	req, err := toBatchRequest(payload)
	if err != nil {
		logger.Warn("Batch save rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	_, err = s.repo.SaveBatch(req)
	s.cache.Invalidate(ctx)
	if err != nil {
		return translateRepoError(err)
	}
	return nil
}

func toBatchRequest(payload sheet.Payload) (repository.BatchRequest, error) {
	req := repository.BatchRequest{
		New:    make([]model.Restaurant, 0, len(payload.New)),
		Update: make([]model.Restaurant, 0, len(payload.Update)),
		Delete: payload.Delete,
	}

	sections := []struct {
		name    string
		records []sheet.Record
		out     *[]model.Restaurant
	}{
		{name: "new", records: payload.New, out: &req.New},
		{name: "update", records: payload.Update, out: &req.Update},
	}
	for _, section := range sections {
		for i, rec := range section.records {
			restaurant := model.FromRecord(rec)
			if err := restaurant.Validate(); err != nil {
				return repository.BatchRequest{}, &ValidationError{Section: section.name, Index: i, Err: err}
			}
			*section.out = append(*section.out, restaurant)
		}
	}
	return req, nil
}

// Recommend returns a random restaurant, or nil when there is none
func (s *restaurantService) Recommend(ctx context.Context) (*sheet.Record, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[s.pick(len(records))]
	return &rec, nil
}

func (s *restaurantService) ExportXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return workbook.Encode(records)
}

// Import adds records that are not stored yet and overwrites the rest by name
func (s *restaurantService) Import(ctx context.Context, records []sheet.Record) (repository.BatchResult, error) {
	payload := sheet.NewPayload()
	for _, rec := range records {
		if _, err := s.repo.FindByName(rec.Name); err == nil {
			payload.Update = append(payload.Update, rec)
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			payload.New = append(payload.New, rec)
		} else {
			return repository.BatchResult{}, err
		}
	}

	req, err := toBatchRequest(payload)
	if err != nil {
		return repository.BatchResult{}, err
	}
	result, err := s.repo.SaveBatch(req)
	s.cache.Invalidate(ctx)
	if err != nil {
		return repository.BatchResult{}, translateRepoError(err)
	}
	return result, nil
}

func translateRepoError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRestaurantNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// 편집기에 그대로 보여지므로 드라이버 메시지는 로그에만 남긴다
		logger.Warn("Duplicate restaurant name", map[string]interface{}{
			"error": err.Error(),
		})
		return ErrRestaurantExists
	}
	return err
}
