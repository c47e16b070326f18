package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cube_navigator/internal/models"
	"cube_navigator/internal/repository"
	"cube_navigator/internal/repository/db"
)

// Round trips against a real SQLite file.
func TestRepository_SQLiteRoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "navigator.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	ctx := context.Background()

	empty, err := repos.StateRepo.Load(ctx)
	if err != nil || empty.ID != 0 {
		t.Fatalf("fresh db should have no state: %+v, %v", empty, err)
	}

	at := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	want := models.RobotState{X: 12.5, Y: -3, HeadingDeg: 90, IsMoving: true, LastCommand: "TurnInPlace(90.00 deg, 45.00 deg/s)", UpdatedAt: at}
	if err := repos.StateRepo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want.IsMoving = false
	want.CubeKnown, want.CubeX, want.CubeY = true, 300, 50
	if err := repos.StateRepo.Save(ctx, want); err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	got, err := repos.StateRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want.ID = 1
	if !got.UpdatedAt.Equal(at) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, at)
	}
	got.UpdatedAt = at
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}

	for i, typ := range []string{models.EventSearchStart, models.EventSearchTimeout, models.EventCubeFound} {
		err := repos.EventRepo.Append(ctx, models.RobotEvent{
			OccurredAt:  at.Add(time.Duration(i) * time.Minute),
			Type:        typ,
			Description: typ,
			Metadata:    map[string]any{"attempt": i + 1},
		})
		if err != nil {
			t.Fatalf("Append %s: %v", typ, err)
		}
	}
	all, err := repos.EventRepo.List(ctx, repository.EventQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Type != models.EventSearchStart || all[2].Type != models.EventCubeFound {
		t.Fatalf("unexpected events: %+v", all)
	}
	windowed, err := repos.EventRepo.List(ctx, repository.EventQuery{From: at.Add(30 * time.Second), To: at.Add(2 * time.Minute), Types: []string{"search_timeout"}})
	if err != nil {
		t.Fatalf("List window: %v", err)
	}
	if len(windowed) != 1 || windowed[0].Type != models.EventSearchTimeout {
		t.Fatalf("unexpected windowed events: %+v", windowed)
	}

	tail, err := repos.EventRepo.List(ctx, repository.EventQuery{Types: []string{models.EventSearchStart, models.EventCubeFound}, Limit: 1})
	if err != nil {
		t.Fatalf("List tail: %v", err)
	}
	if len(tail) != 1 || tail[0].Type != models.EventCubeFound {
		t.Fatalf("unexpected tail: %+v", tail)
	}

	created, err := repos.Auth.Create(ctx, "operator", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	u, err := repos.Auth.GetByUsername(ctx, "operator")
	if err != nil || u == nil || u.ID != created.ID || u.Role != models.RoleOperator {
		t.Fatalf("GetByUsername = %+v, %v", u, err)
	}
}
