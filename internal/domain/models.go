package domain

// User is an account in the workshop system.
type User struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// Vehicle is a customer vehicle tracked by the workshop.
type Vehicle struct {
	ID      int64
	OwnerID int64
	Brand   string
	Model   string
	Plate   string
	Year    string
	Km      int
}

// Maintenance is one service record for a vehicle.
type Maintenance struct {
	ID        int64
	VehicleID int64
	Type      string
	Date      string // YYYY-MM-DD
	Note      string
}

// Deadline is a dated obligation for a vehicle (inspection, tax, insurance).
type Deadline struct {
	ID        int64
	VehicleID int64
	Type      string
	Date      string // YYYY-MM-DD
}
