package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/repository/testutil"
)

func customerRows(c *domain.Customer) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "phone", "email", "address", "drive_folder_id",
		"sheet_id", "tailor_id", "created_at", "updated_at",
	}).AddRow(
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.DriveFolderID,
		c.SheetID, c.TailorID, c.CreatedAt, c.UpdatedAt,
	)
}

func TestCustomerRepository_UpsertByPhone(t *testing.T) {
	existing := &domain.Customer{
		ID:        "c-1",
		Name:      "Asha Rao",
		Phone:     "9999900000",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	t.Run("existing phone adopts the stored record", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE phone = \\$1").
			WithArgs("9999900000").
			WillReturnRows(customerRows(existing))

		customer := &domain.Customer{Name: "Asha R.", Phone: "9999900000"}
		reused, err := repo.UpsertByPhone(context.Background(), customer)
		require.NoError(t, err)
		assert.True(t, reused)
		assert.Equal(t, "c-1", customer.ID)
		assert.Equal(t, "Asha Rao", customer.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("new phone inserts", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE phone = \\$1").
			WithArgs("8888800000").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO customers").
			WillReturnResult(sqlmock.NewResult(0, 1))

		customer := &domain.Customer{Name: "Beena Pillai", Phone: "8888800000"}
		reused, err := repo.UpsertByPhone(context.Background(), customer)
		require.NoError(t, err)
		assert.False(t, reused)
		assert.NotEmpty(t, customer.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost insert race adopts the winner", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE phone = \\$1").
			WithArgs("9999900000").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO customers").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE phone = \\$1").
			WithArgs("9999900000").
			WillReturnRows(customerRows(existing))

		customer := &domain.Customer{Name: "Asha Rao", Phone: "9999900000"}
		reused, err := repo.UpsertByPhone(context.Background(), customer)
		require.NoError(t, err)
		assert.True(t, reused)
		assert.Equal(t, "c-1", customer.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCustomerRepository_GetCustomerByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		stored := &domain.Customer{
			ID:        "c-1",
			Name:      "Asha Rao",
			Phone:     "9999900000",
			SheetID:   "sheet-1",
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs("c-1").
			WillReturnRows(customerRows(stored))

		customer, err := repo.GetCustomerByID(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, "sheet-1", customer.SheetID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetCustomerByID(context.Background(), "nope")
		assert.True(t, domain.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCustomerRepository_ListCustomers(t *testing.T) {
	t.Run("filters by tailor", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		stored := &domain.Customer{
			ID:        "c-1",
			Name:      "Asha Rao",
			Phone:     "9999900000",
			TailorID:  "t-1",
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE tailor_id = \\$1 ORDER BY created_at DESC").
			WithArgs("t-1").
			WillReturnRows(customerRows(stored))

		customers, err := repo.ListCustomers(context.Background(), "t-1")
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "t-1", customers[0].TailorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no filter lists all", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM customers ORDER BY created_at DESC").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "phone", "email", "address", "drive_folder_id",
				"sheet_id", "tailor_id", "created_at", "updated_at",
			}))

		customers, err := repo.ListCustomers(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, customers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCustomerRepository_UpdateCustomer(t *testing.T) {
	t.Run("persists the row", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectExec("UPDATE customers").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateCustomer(context.Background(), &domain.Customer{
			ID:    "c-1",
			Name:  "Asha Rao Nair",
			Phone: "9999900000",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewCustomerRepository(db)

		mock.ExpectExec("UPDATE customers").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateCustomer(context.Background(), &domain.Customer{ID: "nope"})
		assert.True(t, domain.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
