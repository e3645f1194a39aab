package store

import (
	"context"
	"errors"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
)

// ErrWrongCredentials is returned when a username/password pair does not
// match a stored account.
var ErrWrongCredentials = errors.New("wrong credentials")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Repo defines the storage operations the bot requires.
type Repo interface {
	// Authenticate verifies a username/password pair and returns the
	// matching user, or ErrWrongCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// CreateUser stores a new account with a hashed password.
	CreateUser(ctx context.Context, username, password string, isAdmin bool) (int64, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListVehicles returns all vehicles when admin is true, otherwise only
	// those owned by userID.
	ListVehicles(ctx context.Context, userID int64, admin bool) ([]domain.Vehicle, error)
	InsertVehicle(ctx context.Context, v *domain.Vehicle) (int64, error)

	// ListMaintenances returns a vehicle's records ordered by date descending.
	ListMaintenances(ctx context.Context, vehicleID int64) ([]domain.Maintenance, error)
	InsertMaintenance(ctx context.Context, vehicleID int64, mtype, date, note string) error

	// ListDeadlines returns a vehicle's deadlines ordered by date ascending.
	ListDeadlines(ctx context.Context, vehicleID int64) ([]domain.Deadline, error)
	InsertDeadline(ctx context.Context, vehicleID int64, dtype, date string) error

	Close() error
}
