package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"golang.org/x/crypto/bcrypt"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
)

// Default account seeded on first start so the workshop owner can log in
// and create the real users.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies PRAGMAs, runs migrations, seeds the default admin account and
// returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	r := &SQLiteRepo{db: db}
	if err := r.seedAdmin(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return r, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin inserts the default admin account when no admin user exists yet.
func (r *SQLiteRepo) seedAdmin(ctx context.Context) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, seedAdminUsername,
	).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = r.CreateUser(ctx, seedAdminUsername, seedAdminPassword, true)
	return err
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Authenticate verifies username/password against the stored bcrypt hash.
func (r *SQLiteRepo) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var (
		u    domain.User
		hash string
		adm  int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, is_admin
		FROM users
		WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &hash, &adm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWrongCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrWrongCredentials
	}
	u.IsAdmin = adm != 0
	return &u, nil
}

// CreateUser stores a new account, hashing the password with bcrypt.
func (r *SQLiteRepo) CreateUser(ctx context.Context, username, password string, isAdmin bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password, is_admin)
		VALUES (?, ?, ?)`,
		username, string(hash), boolToInt(isAdmin),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListUsers returns every account.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, is_admin
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		var (
			u   domain.User
			adm int
		)
		if err := rows.Scan(&u.ID, &u.Username, &adm); err != nil {
			return nil, err
		}
		u.IsAdmin = adm != 0
		res = append(res, u)
	}
	return res, rows.Err()
}

// ListVehicles returns all vehicles for admins, otherwise the user's own.
func (r *SQLiteRepo) ListVehicles(ctx context.Context, userID int64, admin bool) ([]domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, brand, model, plate, year, km
		FROM vehicles
		WHERE owner_id = ?
		ORDER BY id`
	args := []any{userID}
	if admin {
		query = `
			SELECT id, owner_id, brand, model, plate, year, km
			FROM vehicles
			ORDER BY id`
		args = nil
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Brand, &v.Model, &v.Plate, &v.Year, &v.Km); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// InsertVehicle stores a new vehicle and returns its id.
func (r *SQLiteRepo) InsertVehicle(ctx context.Context, v *domain.Vehicle) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (owner_id, brand, model, plate, year, km)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.OwnerID, v.Brand, v.Model, v.Plate, v.Year, v.Km,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListMaintenances returns a vehicle's service records, newest date first.
func (r *SQLiteRepo) ListMaintenances(ctx context.Context, vehicleID int64) ([]domain.Maintenance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, vehicle_id, type, date, note
		FROM maintenances
		WHERE vehicle_id = ?
		ORDER BY date DESC`,
		vehicleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Maintenance
	for rows.Next() {
		var m domain.Maintenance
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.Type, &m.Date, &m.Note); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// InsertMaintenance stores one service record.
func (r *SQLiteRepo) InsertMaintenance(ctx context.Context, vehicleID int64, mtype, date, note string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO maintenances (vehicle_id, type, date, note)
		VALUES (?, ?, ?, ?)`,
		vehicleID, mtype, date, note,
	)
	return err
}

// ListDeadlines returns a vehicle's deadlines ordered by date ascending.
func (r *SQLiteRepo) ListDeadlines(ctx context.Context, vehicleID int64) ([]domain.Deadline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, vehicle_id, type, date
		FROM deadlines
		WHERE vehicle_id = ?
		ORDER BY date ASC`,
		vehicleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Deadline
	for rows.Next() {
		var d domain.Deadline
		if err := rows.Scan(&d.ID, &d.VehicleID, &d.Type, &d.Date); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// InsertDeadline stores one deadline.
func (r *SQLiteRepo) InsertDeadline(ctx context.Context, vehicleID int64, dtype, date string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deadlines (vehicle_id, type, date)
		VALUES (?, ?, ?)`,
		vehicleID, dtype, date,
	)
	return err
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
