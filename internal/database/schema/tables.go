package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(255) UNIQUE,
		password_hash VARCHAR(255),
		role VARCHAR(20) NOT NULL,
		name VARCHAR(255) NOT NULL,
		user_code VARCHAR(50) UNIQUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255),
		address TEXT,
		drive_folder_id VARCHAR(255),
		sheet_id VARCHAR(255),
		tailor_id VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		order_number VARCHAR(50) NOT NULL UNIQUE,
		customer_id UUID NOT NULL,
		customer_phone VARCHAR(50) NOT NULL,
		garment_type VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'new',
		notes TEXT,
		delivery_date TIMESTAMP,
		measurement_id UUID,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_phone ON orders (customer_phone)`,
	`CREATE TABLE IF NOT EXISTS measurements (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL,
		garment_type VARCHAR(100) NOT NULL,
		chest VARCHAR(20),
		waist VARCHAR(20),
		hips VARCHAR(20),
		shoulder VARCHAR(20),
		sleeves VARCHAR(20),
		length VARCHAR(20),
		inseam VARCHAR(20),
		notes TEXT,
		sheet_row INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_order_id ON measurements (order_id)`,
	`CREATE TABLE IF NOT EXISTS scheduled_jobs (
		id UUID PRIMARY KEY,
		job_type VARCHAR(50) NOT NULL,
		scheduled_for TIMESTAMP NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		recipient_phone VARCHAR(50) NOT NULL,
		message TEXT NOT NULL,
		order_id UUID,
		measurement_id UUID,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_jobs_due ON scheduled_jobs (status, scheduled_for)`,
	`CREATE TABLE IF NOT EXISTS oauth_tokens (
		service VARCHAR(50) PRIMARY KEY,
		access_token TEXT NOT NULL,
		refresh_token TEXT,
		expiry_date TIMESTAMP,
		scope TEXT,
		token_type VARCHAR(50),
		updated_at TIMESTAMP NOT NULL
	)`,
}
