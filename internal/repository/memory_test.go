package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

func TestInMemoryCustomerRepository_UpsertByPhone(t *testing.T) {
	ctx := context.Background()

	t.Run("second upsert adopts the first record", func(t *testing.T) {
		repo := NewInMemoryCustomerRepository()

		first := &domain.Customer{Name: "Asha Rao", Phone: "9999900000"}
		reused, err := repo.UpsertByPhone(ctx, first)
		require.NoError(t, err)
		assert.False(t, reused)
		require.NotEmpty(t, first.ID)

		second := &domain.Customer{Name: "Asha R.", Phone: "9999900000"}
		reused, err = repo.UpsertByPhone(ctx, second)
		require.NoError(t, err)
		assert.True(t, reused)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Asha Rao", second.Name)

		customers, err := repo.ListCustomers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, customers, 1)
	})

	t.Run("concurrent upserts converge on one record", func(t *testing.T) {
		repo := NewInMemoryCustomerRepository()

		var wg sync.WaitGroup
		ids := make([]string, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c := &domain.Customer{Name: "Asha Rao", Phone: "9999900000"}
				_, err := repo.UpsertByPhone(ctx, c)
				assert.NoError(t, err)
				ids[i] = c.ID
			}(i)
		}
		wg.Wait()

		for _, id := range ids[1:] {
			assert.Equal(t, ids[0], id)
		}
		customers, err := repo.ListCustomers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, customers, 1)
	})

	t.Run("stored record is isolated from later mutation", func(t *testing.T) {
		repo := NewInMemoryCustomerRepository()

		c := &domain.Customer{Name: "Asha Rao", Phone: "9999900000"}
		_, err := repo.UpsertByPhone(ctx, c)
		require.NoError(t, err)

		c.Name = "mutated"
		got, err := repo.GetCustomerByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", got.Name)
	})
}

func TestInMemoryOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryOrderRepository()

	order := &domain.Order{
		CustomerID:    "c-1",
		CustomerPhone: "9999900000",
		GarmentType:   "blouse",
	}
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.NotEmpty(t, order.ID)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, domain.OrderStatusNew, order.Status)

	t.Run("get by number", func(t *testing.T) {
		got, err := repo.GetOrderByNumber(ctx, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("list by phone", func(t *testing.T) {
		orders, err := repo.ListOrdersByPhone(ctx, "9999900000")
		require.NoError(t, err)
		assert.Len(t, orders, 1)

		orders, err = repo.ListOrdersByPhone(ctx, "0000000000")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("update unknown order", func(t *testing.T) {
		err := repo.UpdateOrder(ctx, &domain.Order{ID: "nope"})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestInMemoryUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	require.NoError(t, repo.CreateUser(ctx, &domain.User{
		Username: "admin@example.com",
		Role:     domain.UserRoleAdmin,
	}))
	require.NoError(t, repo.CreateUser(ctx, &domain.User{
		UserCode: "TLR-1234",
	}))

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.CreateUser(ctx, &domain.User{Username: "admin@example.com"})
		var exists *domain.ErrUserExists
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, "username", exists.Field)
	})

	t.Run("duplicate user code", func(t *testing.T) {
		err := repo.CreateUser(ctx, &domain.User{UserCode: "TLR-1234"})
		var exists *domain.ErrUserExists
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, "user_code", exists.Field)
	})

	t.Run("blank role defaults to tailor", func(t *testing.T) {
		u := &domain.User{UserCode: "TLR-5678"}
		require.NoError(t, repo.CreateUser(ctx, u))
		assert.Equal(t, domain.UserRoleTailor, u.Role)
	})
}

func TestInMemorySessionRepository_DeleteExpiredSessions(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemorySessionRepository()

	live := &domain.Session{UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}
	expired := &domain.Session{UserID: "u-1", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.CreateSession(ctx, live))
	require.NoError(t, repo.CreateSession(ctx, expired))

	count, err := repo.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.GetSessionByID(ctx, live.ID)
	assert.NoError(t, err)
	_, err = repo.GetSessionByID(ctx, expired.ID)
	assert.True(t, domain.IsNotFound(err))
}
