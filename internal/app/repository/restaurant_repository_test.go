package repository

import (
	"testing"

	"github.com/arch-spatula/jmc/internal/app/model"
	"github.com/arch-spatula/jmc/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRestaurantTest(t *testing.T) (*gorm.DB, RestaurantRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testDB, NewRestaurantRepository(testDB)
}

func newRestaurant(name string, menus ...string) model.Restaurant {
	r := model.Restaurant{
		Name:       name,
		Rating:     3,
		Categories: model.StringArray{"한식"},
		KakaoURL:   "https://place.map.kakao.com/" + name,
	}
	for _, m := range menus {
		r.Menus = append(r.Menus, model.Menu{Name: m, Price: 1000})
	}
	return r
}

func names(restaurants []model.Restaurant) []string {
	out := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, r.Name)
	}
	return out
}

func TestRestaurantRepository_CreateAndFind(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	r := newRestaurant("라멘집", "라멘", "교자")
	require.NoError(t, repo.Create(&r))
	assert.NotZero(t, r.ID)

	found, err := repo.FindByName("라멘집")
	require.NoError(t, err)
	assert.Equal(t, model.StringArray{"한식"}, found.Categories)
	require.Len(t, found.Menus, 2)
	assert.Equal(t, "라멘", found.Menus[0].Name)
	assert.Equal(t, "교자", found.Menus[1].Name)

	_, err = repo.FindByName("없는식당")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRestaurantRepository_CreateDuplicateName(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	first := newRestaurant("식당")
	require.NoError(t, repo.Create(&first))

	dup := newRestaurant("식당")
	assert.Error(t, repo.Create(&dup))
}

func TestRestaurantRepository_FindAllKeepsInsertionOrder(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	for _, name := range []string{"다", "가", "나"} {
		r := newRestaurant(name)
		require.NoError(t, repo.Create(&r))
	}

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"다", "가", "나"}, names(all))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRestaurantRepository_UpdateReplacesMenus(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	r := newRestaurant("식당", "A", "B")
	require.NoError(t, repo.Create(&r))

	update := newRestaurant("새이름", "C")
	update.Rating = 0
	update.Visited = false
	require.NoError(t, repo.Update("식당", &update))

	_, err := repo.FindByName("식당")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByName("새이름")
	require.NoError(t, err)
	assert.Equal(t, 0.0, found.Rating)
	require.Len(t, found.Menus, 1)
	assert.Equal(t, "C", found.Menus[0].Name)

	missing := newRestaurant("x")
	assert.ErrorIs(t, repo.Update("없는식당", &missing), gorm.ErrRecordNotFound)
}

func TestRestaurantRepository_Delete(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)

	r := newRestaurant("식당", "A")
	require.NoError(t, repo.Create(&r))

	require.NoError(t, repo.Delete("식당"))
	assert.ErrorIs(t, repo.Delete("식당"), gorm.ErrRecordNotFound)

	var menuCount int64
	require.NoError(t, testDB.Model(&model.Menu{}).Count(&menuCount).Error)
	assert.Zero(t, menuCount)

	// 같은 이름으로 다시 만들 수 있다
	again := newRestaurant("식당")
	assert.NoError(t, repo.Create(&again))
}

func TestRestaurantRepository_SaveBatch(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	for _, name := range []string{"가", "나", "다"} {
		r := newRestaurant(name, name+"메뉴")
		require.NoError(t, repo.Create(&r))
	}

	updated := newRestaurant("나", "새메뉴1", "새메뉴2")
	updated.Visited = true

	result, err := repo.SaveBatch(BatchRequest{
		New:    []model.Restaurant{newRestaurant("라")},
		Update: []model.Restaurant{updated},
		Delete: []string{"가", "없는식당"},
	})
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Created: 1, Updated: 1, Deleted: 1}, result)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"나", "다", "라"}, names(all))
	assert.True(t, all[0].Visited)
	require.Len(t, all[0].Menus, 2)
	assert.Equal(t, "새메뉴2", all[0].Menus[1].Name)
	require.Len(t, all[1].Menus, 1)
	assert.Empty(t, all[2].Menus)
}

func TestRestaurantRepository_SaveBatchUpsertsUnknownUpdate(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	result, err := repo.SaveBatch(BatchRequest{
		Update: []model.Restaurant{newRestaurant("이름바꾼식당")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Upserted)

	_, err = repo.FindByName("이름바꾼식당")
	assert.NoError(t, err)
}

func TestRestaurantRepository_SaveBatchDeleteThenRecreate(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	r := newRestaurant("식당", "옛메뉴")
	require.NoError(t, repo.Create(&r))

	_, err := repo.SaveBatch(BatchRequest{
		New:    []model.Restaurant{newRestaurant("식당", "새메뉴")},
		Delete: []string{"식당"},
	})
	require.NoError(t, err)

	found, err := repo.FindByName("식당")
	require.NoError(t, err)
	require.Len(t, found.Menus, 1)
	assert.Equal(t, "새메뉴", found.Menus[0].Name)
}

func TestRestaurantRepository_SaveBatchRollsBack(t *testing.T) {
	_, repo := setupRestaurantTest(t)

	existing := newRestaurant("가")
	require.NoError(t, repo.Create(&existing))

	_, err := repo.SaveBatch(BatchRequest{
		New:    []model.Restaurant{newRestaurant("나"), newRestaurant("나")},
		Delete: []string{"가"},
	})
	require.Error(t, err)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"가"}, names(all))
}
