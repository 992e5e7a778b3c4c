package repository

import (
	"errors"
	"fmt"

	"github.com/arch-spatula/jmc/internal/app/model"
	"github.com/arch-spatula/jmc/pkg/logger"
	"gorm.io/gorm"
)

// BatchRequest 일괄 저장 요청 (삭제 -> 수정 -> 추가 순서로 적용)
type BatchRequest struct {
	New    []model.Restaurant
	Update []model.Restaurant
	Delete []string
}

// BatchResult 일괄 저장 결과 집계
type BatchResult struct {
	Created  int
	Updated  int
	Upserted int // 수정 요청이었지만 같은 이름이 없어 새로 추가된 건수
	Deleted  int
}

type RestaurantRepository interface {
	FindAll() ([]model.Restaurant, error)
	FindByName(name string) (*model.Restaurant, error)
	Count() (int64, error)
	Create(restaurant *model.Restaurant) error
	Update(name string, restaurant *model.Restaurant) error
	Delete(name string) error
	SaveBatch(req BatchRequest) (BatchResult, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func withOrderedMenus(db *gorm.DB) *gorm.DB {
	return db.Preload("Menus", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, id ASC")
	})
}

func (r *restaurantRepository) FindAll() ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := withOrderedMenus(r.db).Order("id ASC").Find(&restaurants).Error; err != nil {
		logger.Error("Failed to fetch restaurants", err)
		return nil, err
	}

	logger.Debug("Fetched restaurants", map[string]interface{}{
		"count": len(restaurants),
	})
	return restaurants, nil
}

func (r *restaurantRepository) FindByName(name string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := withOrderedMenus(r.db).Where("name = ?", name).First(&restaurant).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find restaurant", err, map[string]interface{}{
				"name": name,
			})
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Restaurant{}).Count(&count).Error
	return count, err
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	if err := createRestaurant(r.db, restaurant); err != nil {
		logger.Error("Failed to create restaurant", err, map[string]interface{}{
			"name": restaurant.Name,
		})
		return err
	}

	logger.Debug("Restaurant created", map[string]interface{}{
		"id":    restaurant.ID,
		"name":  restaurant.Name,
		"menus": len(restaurant.Menus),
	})
	return nil
}

func (r *restaurantRepository) Update(name string, restaurant *model.Restaurant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Restaurant
		if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
			return err
		}
		if err := overwriteRestaurant(tx, &existing, restaurant); err != nil {
			logger.Error("Failed to update restaurant", err, map[string]interface{}{
				"name": name,
			})
			return err
		}
		return nil
	})
}

func (r *restaurantRepository) Delete(name string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := deleteByName(tx, name)
		if err != nil {
			logger.Error("Failed to delete restaurant", err, map[string]interface{}{
				"name": name,
			})
			return err
		}
		if deleted == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SaveBatch applies deletes, then updates, then inserts in a single transaction.
// Updates are matched by name; an update with no matching name is inserted.
func (r *restaurantRepository) SaveBatch(req BatchRequest) (BatchResult, error) {
	var result BatchResult

	tx := r.db.Begin()
	if tx.Error != nil {
		return result, tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			logger.Error("Panic during batch save, rolling back", fmt.Errorf("panic: %v", rec))
			panic(rec)
		}
	}()

	for _, name := range req.Delete {
		deleted, err := deleteByName(tx, name)
		if err != nil {
			tx.Rollback()
			return BatchResult{}, fmt.Errorf("delete %q: %w", name, err)
		}
		result.Deleted += int(deleted)
	}

	for i := range req.Update {
		item := &req.Update[i]

		var existing model.Restaurant
		err := tx.Where("name = ?", item.Name).First(&existing).Error
		switch {
		case err == nil:
			if err := overwriteRestaurant(tx, &existing, item); err != nil {
				tx.Rollback()
				return BatchResult{}, fmt.Errorf("update %q: %w", item.Name, err)
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			logger.Warn("Update target not found, inserting", map[string]interface{}{
				"name": item.Name,
			})
			if err := createRestaurant(tx, item); err != nil {
				tx.Rollback()
				return BatchResult{}, fmt.Errorf("insert %q: %w", item.Name, err)
			}
			result.Upserted++
		default:
			tx.Rollback()
			return BatchResult{}, err
		}
	}

	for i := range req.New {
		item := &req.New[i]
		if err := createRestaurant(tx, item); err != nil {
			tx.Rollback()
			return BatchResult{}, fmt.Errorf("insert %q: %w", item.Name, err)
		}
		result.Created++
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit batch save", err)
		return BatchResult{}, err
	}

	logger.Info("Batch save committed", map[string]interface{}{
		"created":  result.Created,
		"updated":  result.Updated,
		"upserted": result.Upserted,
		"deleted":  result.Deleted,
	})
	return result, nil
}

func createRestaurant(tx *gorm.DB, restaurant *model.Restaurant) error {
	restaurant.ID = 0
	for i := range restaurant.Menus {
		restaurant.Menus[i].ID = 0
		restaurant.Menus[i].RestaurantID = 0
	}
	if restaurant.Categories == nil {
		restaurant.Categories = model.StringArray{}
	}
	return tx.Create(restaurant).Error
}

// overwriteRestaurant replaces every field of existing with item, menus included
func overwriteRestaurant(tx *gorm.DB, existing, item *model.Restaurant) error {
	categories := item.Categories
	if categories == nil {
		categories = model.StringArray{}
	}

	err := tx.Model(existing).
		Select("Name", "Rating", "Categories", "KakaoURL", "Visited", "Description").
		Updates(model.Restaurant{
			Name:        item.Name,
			Rating:      item.Rating,
			Categories:  categories,
			KakaoURL:    item.KakaoURL,
			Visited:     item.Visited,
			Description: item.Description,
		}).Error
	if err != nil {
		return err
	}

	if err := tx.Where("restaurant_id = ?", existing.ID).Delete(&model.Menu{}).Error; err != nil {
		return err
	}
	if len(item.Menus) == 0 {
		return nil
	}

	menus := make([]model.Menu, len(item.Menus))
	for i, m := range item.Menus {
		m.ID = 0
		m.RestaurantID = existing.ID
		m.Position = i
		menus[i] = m
	}
	return tx.Create(&menus).Error
}

func deleteByName(tx *gorm.DB, name string) (int64, error) {
	var ids []uint
	if err := tx.Model(&model.Restaurant{}).Where("name = ?", name).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("restaurant_id IN ?", ids).Delete(&model.Menu{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&model.Restaurant{})
	return res.RowsAffected, res.Error
}
