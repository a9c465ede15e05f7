package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

func TestWithinTx_RollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Seed(ctx, []entity.Product{{Name: "Mug", Slug: "mug", StockQuantity: 5}}))
	products, _ := s.Products().FindAll(ctx)
	id := products[0].ID

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		_, err := tx.Products().AdjustProductStock(ctx, id, -5)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	products, _ = s.Products().FindAll(ctx)
	assert.Equal(t, 5, products[0].StockQuantity)
	assert.True(t, products[0].InStock)
}

func TestWithinTx_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	started := make(chan struct{})
	release := make(chan struct{})
	boom := errors.New("boom")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
			name := "rolled back"
			require.NoError(t, tx.Customers().Create(ctx, &entity.Customer{FullName: &name}))
			close(started)
			<-release
			return boom
		})
		assert.ErrorIs(t, err, boom)
	}()

	<-started
	go func() {
		defer wg.Done()
		name := "outside"
		assert.NoError(t, s.Customers().Create(ctx, &entity.Customer{FullName: &name}))
	}()

	// Give the outside write time to block on the open transaction.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	customers, err := s.Customers().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "outside", *customers[0].FullName)
}

func TestHeroSlidesAndTrends(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first := &entity.HeroSlide{ImageURL: "a.jpg"}
	second := &entity.HeroSlide{ImageURL: "b.jpg"}
	require.NoError(t, s.HeroSlides().Create(ctx, first))
	require.NoError(t, s.HeroSlides().Create(ctx, second))
	slides, _ := s.HeroSlides().FindAll(ctx)
	require.Len(t, slides, 2)
	assert.Equal(t, first.ID, slides[0].ID)

	require.NoError(t, s.HeroSlides().Delete(ctx, first.ID))
	_, err := s.HeroSlides().FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.HeroSlides().Update(ctx, &entity.HeroSlide{ID: first.ID}), repository.ErrNotFound)

	late := &entity.Trend{Title: "Late", SortOrder: 2}
	early := &entity.Trend{Title: "Early", SortOrder: 1}
	require.NoError(t, s.Trends().Create(ctx, late))
	require.NoError(t, s.Trends().Create(ctx, early))
	trends, _ := s.Trends().FindAll(ctx)
	require.Len(t, trends, 2)
	assert.Equal(t, "Early", trends[0].Title)
	assert.ErrorIs(t, s.Trends().Delete(ctx, 999), repository.ErrNotFound)
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Seed(ctx, []entity.Product{{Name: "Mug", Slug: "mug", StockQuantity: 2}}))
	products, _ := s.Products().FindAll(ctx)

	stock, err := s.Products().AdjustProductStock(ctx, products[0].ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	vid := s.AddVariant(products[0].ID, "Large", 1)
	stock, err = s.Products().AdjustVariantStock(ctx, vid, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	_, err = s.Products().AdjustVariantStock(ctx, 999, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByContact_EarliestMatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	email, phone := "a@example.com", "555"
	first := &entity.Customer{Email: &email}
	second := &entity.Customer{Phone: &phone}
	require.NoError(t, s.Customers().Create(ctx, first))
	require.NoError(t, s.Customers().Create(ctx, second))

	c, err := s.Customers().FindByContact(ctx, email, phone)
	require.NoError(t, err)
	assert.Equal(t, first.ID, c.ID)

	_, err = s.Customers().FindByContact(ctx, "nobody@example.com", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
