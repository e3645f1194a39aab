package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "officina.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestAuthenticateSeededAdmin(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	u, err := repo.Authenticate(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("seeded admin should authenticate: %v", err)
	}
	if !u.IsAdmin {
		t.Fatal("seeded account should be admin")
	}

	if _, err := repo.Authenticate(ctx, "admin", "nope"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("want ErrWrongCredentials, got %v", err)
	}
	if _, err := repo.Authenticate(ctx, "ghost", "admin"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("unknown user: want ErrWrongCredentials, got %v", err)
	}
}

func TestVehicleScoping(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	marioID, err := repo.CreateUser(ctx, "mario", "pw", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	luigiID, err := repo.CreateUser(ctx, "luigi", "pw", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := repo.InsertVehicle(ctx, &domain.Vehicle{OwnerID: marioID, Brand: "Fiat", Plate: "AB123CD"}); err != nil {
		t.Fatalf("insert vehicle: %v", err)
	}
	if _, err := repo.InsertVehicle(ctx, &domain.Vehicle{OwnerID: luigiID, Brand: "Opel", Plate: "EF456GH"}); err != nil {
		t.Fatalf("insert vehicle: %v", err)
	}

	own, err := repo.ListVehicles(ctx, marioID, false)
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}
	if len(own) != 1 || own[0].Brand != "Fiat" {
		t.Fatalf("mario should see only his vehicle, got %v", own)
	}

	all, err := repo.ListVehicles(ctx, marioID, true)
	if err != nil {
		t.Fatalf("list vehicles (admin): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin scope should see every vehicle, got %v", all)
	}
}

func TestDeadlineOrdering(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	uid, _ := repo.CreateUser(ctx, "mario", "pw", false)
	vid, err := repo.InsertVehicle(ctx, &domain.Vehicle{OwnerID: uid, Brand: "Fiat", Plate: "AB123CD"})
	if err != nil {
		t.Fatalf("insert vehicle: %v", err)
	}

	for _, d := range []string{"2024-08-01", "2024-05-20", "2024-06-03"} {
		if err := repo.InsertDeadline(ctx, vid, "Inspection", d); err != nil {
			t.Fatalf("insert deadline: %v", err)
		}
	}

	ds, err := repo.ListDeadlines(ctx, vid)
	if err != nil {
		t.Fatalf("list deadlines: %v", err)
	}
	want := []string{"2024-05-20", "2024-06-03", "2024-08-01"}
	if len(ds) != len(want) {
		t.Fatalf("want %d deadlines, got %d", len(want), len(ds))
	}
	for i, d := range ds {
		if d.Date != want[i] {
			t.Errorf("position %d: want %s, got %s", i, want[i], d.Date)
		}
	}
}

func TestMaintenanceRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	uid, _ := repo.CreateUser(ctx, "mario", "pw", false)
	vid, _ := repo.InsertVehicle(ctx, &domain.Vehicle{OwnerID: uid, Brand: "Fiat", Plate: "AB123CD"})

	if err := repo.InsertMaintenance(ctx, vid, "Oil change", "2024-03-10", "5W30"); err != nil {
		t.Fatalf("insert maintenance: %v", err)
	}
	if err := repo.InsertMaintenance(ctx, vid, "Brakes", "2024-05-01", ""); err != nil {
		t.Fatalf("insert maintenance: %v", err)
	}

	ms, err := repo.ListMaintenances(ctx, vid)
	if err != nil {
		t.Fatalf("list maintenances: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("want 2 records, got %d", len(ms))
	}
	// Newest first.
	if ms[0].Type != "Brakes" || ms[1].Type != "Oil change" {
		t.Fatalf("unexpected order: %v", ms)
	}
	if ms[1].Note != "5W30" {
		t.Fatalf("note lost: %v", ms[1])
	}
}
