package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pvolkov/cart_service/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &GormRepo{DB: db}
}

func TestAddItem_CreatesNewLine(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 3}
	created, err := r.AddItem(ctx, &item)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, item.ID)
	assert.Equal(t, uint(3), item.Quantity)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := models.CartItem{UserID: 1, ProductID: 2, Quantity: 2}
	created, err := r.AddItem(ctx, &first)
	require.NoError(t, err)
	require.True(t, created)

	second := models.CartItem{UserID: 1, ProductID: 2, Quantity: 3}
	created, err = r.AddItem(ctx, &second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, uint(5), second.Quantity)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", 1, 2).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItem_SeparatePairsStayIndependent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := models.CartItem{UserID: 1, ProductID: 2, Quantity: 1}
	b := models.CartItem{UserID: 1, ProductID: 3, Quantity: 1}
	c := models.CartItem{UserID: 2, ProductID: 2, Quantity: 1}
	for _, it := range []*models.CartItem{&a, &b, &c} {
		created, err := r.AddItem(ctx, it)
		require.NoError(t, err)
		require.True(t, created)
	}

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestAddItem_ConcurrentAddsKeepSingleLine(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := models.CartItem{UserID: 1, ProductID: 7, Quantity: 1}
			_, err := r.AddItem(ctx, &item)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var items []models.CartItem
	require.NoError(t, r.DB.Where("user_id = ? AND product_id = ?", 1, 7).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, uint(n), items[0].Quantity)
}

func TestSetQuantity_UpdatesValue(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 2}
	_, err := r.AddItem(ctx, &item)
	require.NoError(t, err)

	updated, err := r.SetQuantity(ctx, 1, item.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, uint(9), updated.Quantity)
}

func TestSetQuantity_ForeignOwnerLooksMissing(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 2}
	_, err := r.AddItem(ctx, &item)
	require.NoError(t, err)

	_, err = r.SetQuantity(ctx, 2, item.ID, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := r.TouchItem(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), kept.Quantity)
}

func TestTouchItem_KeepsQuantity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 4}
	_, err := r.AddItem(ctx, &item)
	require.NoError(t, err)

	touched, err := r.TouchItem(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(4), touched.Quantity)
}

func TestDeleteItem_DoubleDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 1}
	_, err := r.AddItem(ctx, &item)
	require.NoError(t, err)

	require.NoError(t, r.DeleteItem(ctx, 1, item.ID))
	err = r.DeleteItem(ctx, 1, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteItem_ForeignOwnerLooksMissing(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := models.CartItem{UserID: 1, ProductID: 2, Quantity: 1}
	_, err := r.AddItem(ctx, &item)
	require.NoError(t, err)

	err = r.DeleteItem(ctx, 2, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearCart_RemovesAllLines(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, productID := range []uint{2, 3, 4} {
		item := models.CartItem{UserID: 1, ProductID: productID, Quantity: 1}
		_, err := r.AddItem(ctx, &item)
		require.NoError(t, err)
	}
	other := models.CartItem{UserID: 2, ProductID: 2, Quantity: 1}
	_, err := r.AddItem(ctx, &other)
	require.NoError(t, err)

	require.NoError(t, r.ClearCart(ctx, 1))

	items, err := r.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = r.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestClearCart_EmptyCartReportsNotFound(t *testing.T) {
	r := newTestRepo(t)

	err := r.ClearCart(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
