//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/Tertoey/roomBooking/internal/domain"
	mysqlrepo "github.com/Tertoey/roomBooking/internal/storage/mysql"
)

// ---------- small helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=booking",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "booking")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func seedRoom(t *testing.T, db *sql.DB, hotelID, roomID int64, rate float64, breakfast *float64) {
	t.Helper()
	var b any
	if breakfast != nil {
		b = *breakfast
	}
	if _, err := db.Exec(
		`INSERT INTO rooms (id, hotel_id, title, room_price, breakfast_price) VALUES (?, ?, ?, ?, ?)`,
		roomID, hotelID, "Test Room", rate, b,
	); err != nil {
		t.Fatalf("seed room: %v", err)
	}
}

func testBooking(user, intent string) domain.Booking {
	return domain.Booking{
		UserID:          user,
		UserName:        "Ana",
		UserEmail:       "ana@example.com",
		HotelOwnerID:    "owner-1",
		HotelID:         3,
		RoomID:          7,
		StartDate:       time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.June, 13, 0, 0, 0, 0, time.UTC),
		BreakfastInc:    true,
		TotalPrice:      360,
		Currency:        "usd",
		PaymentIntentID: intent,
	}
}

// ---------- the tests ----------

func TestRepo_MySQL_CreateFindAndRoom(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	breakfast := 20.0
	seedRoom(t, db, 3, 7, 100, &breakfast)

	room, err := repo.GetRoom(ctx, 3, 7)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if room.RoomRate != 100 || room.BreakfastRate == nil || *room.BreakfastRate != 20 {
		t.Fatalf("unexpected room: %+v", room)
	}
	if _, err := repo.GetRoom(ctx, 3, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}

	created, err := repo.Create(ctx, testBooking("user-1", "pi_abc"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("id not assigned")
	}

	got, err := repo.FindByOwnerAndIntent(ctx, "user-1", "pi_abc")
	if err != nil {
		t.Fatalf("FindByOwnerAndIntent: %v", err)
	}
	if got.ID != created.ID || got.TotalPrice != 360 || !got.BreakfastInc || got.UserName != "Ana" {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if !got.StartDate.Equal(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start date mangled: %v", got.StartDate)
	}

	if _, err := repo.FindByOwnerAndIntent(ctx, "user-2", "pi_abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestRepo_MySQL_UniquenessConstraints(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, testBooking("user-1", "pi_1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// same (user, intent)
	if _, err := repo.Create(ctx, testBooking("user-1", "pi_1")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate intent, got %v", err)
	}
	// same (user, room, dates) under a fresh intent id
	if _, err := repo.Create(ctx, testBooking("user-1", "pi_2")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate stay, got %v", err)
	}
	// another user is free to book the same stay
	if _, err := repo.Create(ctx, testBooking("user-2", "pi_3")); err != nil {
		t.Fatalf("Create for second user: %v", err)
	}
}

// The store, not the service's read-then-write, guards concurrent duplicates.
func TestRepo_MySQL_ConcurrentCreates(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, testBooking("user-1", fmt.Sprintf("pi_%d", i)))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok=%d conflicts=%d, want 1/%d", ok, conflicts, n-1)
	}

	rows, err := repo.ListBookings(ctx, domain.BookingsQuery{Limit: 100})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one surviving row, got %d", len(rows))
	}
}
