package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new PostgreSQL customer repository
func NewCustomerRepository(db *sql.DB) domain.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, phone, email, address, drive_folder_id, sheet_id, tailor_id, created_at, updated_at`

func (r *customerRepository) UpsertByPhone(ctx context.Context, customer *domain.Customer) (bool, error) {
	existing, err := r.GetCustomerByPhone(ctx, customer.Phone)
	if err == nil {
		*customer = *existing
		return true, nil
	}
	if !domain.IsNotFound(err) {
		return false, err
	}

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	query := `
		INSERT INTO customers (id, name, phone, email, address, drive_folder_id, sheet_id, tailor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Phone,
		nullString(customer.Email),
		nullString(customer.Address),
		nullString(customer.DriveFolderID),
		nullString(customer.SheetID),
		nullString(customer.TailorID),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create customer: %w", err)
	}

	// Lost a concurrent insert race for the same phone: adopt the winner.
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := r.GetCustomerByPhone(ctx, customer.Phone)
		if err != nil {
			return false, err
		}
		*customer = *existing
		return true, nil
	}
	return false, nil
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.getCustomer(ctx, "id = $1", id)
}

func (r *customerRepository) GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return r.getCustomer(ctx, "phone = $1", phone)
}

func (r *customerRepository) getCustomer(ctx context.Context, where string, arg interface{}) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s`, customerColumns, where)
	row := r.db.QueryRowContext(ctx, query, arg)
	customer, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("customer", fmt.Sprintf("%v", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) ListCustomers(ctx context.Context, tailorID string) ([]*domain.Customer, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(
		"id", "name", "phone", "email", "address", "drive_folder_id",
		"sheet_id", "tailor_id", "created_at", "updated_at",
	).From("customers").OrderBy("created_at DESC")

	if tailorID != "" {
		builder = builder.Where(sq.Eq{"tailor_id": tailorID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customers query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4,
		    drive_folder_id = $5, sheet_id = $6, tailor_id = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Phone,
		nullString(customer.Email),
		nullString(customer.Address),
		nullString(customer.DriveFolderID),
		nullString(customer.SheetID),
		nullString(customer.TailorID),
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewErrNotFound("customer", customer.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c       domain.Customer
		email   sql.NullString
		address sql.NullString
		folder  sql.NullString
		sheet   sql.NullString
		tailor  sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &email, &address,
		&folder, &sheet, &tailor, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Address = address.String
	c.DriveFolderID = folder.String
	c.SheetID = sheet.String
	c.TailorID = tailor.String
	return &c, nil
}
