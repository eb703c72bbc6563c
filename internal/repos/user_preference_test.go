package repos

import (
	"context"
	"math"
	"testing"

	"github.com/newsloom/newsloom-backend/internal/repos/testutil"
	"github.com/newsloom/newsloom-backend/internal/types"
)

func TestUserPreferenceAdjustScore(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "prefadjust@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "prefadjust-cat")

	// First interaction creates the row.
	if err := repo.AdjustScore(ctx, tx, user.ID, cat.ID, types.PreferenceViewIncrement, types.PreferenceScoreCap); err != nil {
		t.Fatalf("AdjustScore: %v", err)
	}
	prefs, err := repo.GetByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("expected 1 preference, got %d", len(prefs))
	}
	if math.Abs(prefs[0].Score-0.1) > 1e-9 {
		t.Fatalf("score after one view = %v, want 0.1", prefs[0].Score)
	}

	// Likes add a heavier increment.
	if err := repo.AdjustScore(ctx, tx, user.ID, cat.ID, types.PreferenceLikeIncrement, types.PreferenceScoreCap); err != nil {
		t.Fatalf("AdjustScore: %v", err)
	}
	prefs, _ = repo.GetByUser(ctx, tx, user.ID)
	if math.Abs(prefs[0].Score-2.1) > 1e-9 {
		t.Fatalf("score after view+like = %v, want 2.1", prefs[0].Score)
	}
}

func TestUserPreferenceScoreCap(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "prefcap@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "prefcap-cat")

	for i := 0; i < 4; i++ {
		if err := repo.AdjustScore(ctx, tx, user.ID, cat.ID, types.PreferenceLikeIncrement, types.PreferenceScoreCap); err != nil {
			t.Fatalf("AdjustScore: %v", err)
		}
	}
	prefs, err := repo.GetByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if prefs[0].Score != types.PreferenceScoreCap {
		t.Fatalf("score = %v, want capped at %v", prefs[0].Score, types.PreferenceScoreCap)
	}

	if err := repo.AdjustScore(ctx, tx, user.ID, cat.ID, -100, types.PreferenceScoreCap); err != nil {
		t.Fatalf("AdjustScore: %v", err)
	}
	prefs, _ = repo.GetByUser(ctx, tx, user.ID)
	if prefs[0].Score != 0 {
		t.Fatalf("score = %v, want floored at 0", prefs[0].Score)
	}
}

func TestUserPreferenceOrderedByScore(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "preforder@example.com")
	low := testutil.SeedCategory(t, ctx, tx, "preforder-low")
	high := testutil.SeedCategory(t, ctx, tx, "preforder-high")

	testutil.SeedPreference(t, ctx, tx, user.ID, low.ID, 1.0)
	testutil.SeedPreference(t, ctx, tx, user.ID, high.ID, 4.5)

	prefs, err := repo.GetByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(prefs) != 2 || prefs[0].CategoryID != high.ID {
		t.Fatalf("expected highest score first, got %+v", prefs)
	}

	deleted, err := repo.Delete(ctx, tx, user.ID, low.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("Delete: expected a row to be removed")
	}
	deleted, _ = repo.Delete(ctx, tx, user.ID, low.ID)
	if deleted {
		t.Fatalf("Delete: repeat delete should report false")
	}
}
