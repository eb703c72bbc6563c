package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/repos/testutil"
	"github.com/newsloom/newsloom-backend/internal/types"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{
			Username: "userrepo",
			Email:    "userrepo@example.com",
			Password: "pw",
			Role:     types.RoleReader,
			IsActive: true,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with assigned id, got %+v", created)
	}

	got, err := repo.GetByID(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "userrepo@example.com" {
		t.Fatalf("GetByID: unexpected user %+v", got)
	}

	got, err = repo.GetByEmail(ctx, tx, "userrepo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created[0].ID {
		t.Fatalf("GetByEmail: unexpected user %+v", got)
	}

	if _, err := repo.GetByEmail(ctx, tx, "missing@example.com"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByEmail missing: expected ErrNotFound, got %v", err)
	}

	exists, err := repo.EmailExists(ctx, tx, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: got (%v, %v), want (true, nil)", exists, err)
	}
	exists, err = repo.UsernameExists(ctx, tx, "someone-else")
	if err != nil || exists {
		t.Fatalf("UsernameExists: got (%v, %v), want (false, nil)", exists, err)
	}

	if err := repo.SetSubscriptionType(ctx, tx, created[0].ID, types.SubscriptionPaid); err != nil {
		t.Fatalf("SetSubscriptionType: %v", err)
	}
	got, _ = repo.GetByID(ctx, tx, created[0].ID)
	if got.SubscriptionType != types.SubscriptionPaid {
		t.Fatalf("SetSubscriptionType: got %q", got.SubscriptionType)
	}
	if !got.HasPremiumAccess() {
		t.Fatalf("paid user should have premium access")
	}
}

func TestUserRepoListActiveOptedIn(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	prefRepo := NewNotificationPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	noRow := testutil.SeedUser(t, ctx, tx, "optin-norow@example.com")
	optedIn := testutil.SeedUser(t, ctx, tx, "optin-yes@example.com")
	optedOut := testutil.SeedUser(t, ctx, tx, "optin-no@example.com")
	inactive := testutil.SeedUser(t, ctx, tx, "optin-inactive@example.com")

	if _, err := prefRepo.Upsert(ctx, tx, &types.NotificationPreference{
		UserID: optedIn.ID, BreakingNews: true, DailyDigest: true, AuthorAlerts: true, CommentReplies: true,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := prefRepo.Upsert(ctx, tx, &types.NotificationPreference{
		UserID: optedOut.ID, BreakingNews: false, DailyDigest: true, AuthorAlerts: true, CommentReplies: true,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.SetActive(ctx, tx, inactive.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	ids, err := repo.ListActiveOptedIn(ctx, tx, types.NotificationBreakingNews)
	if err != nil {
		t.Fatalf("ListActiveOptedIn: %v", err)
	}
	set := map[uuid.UUID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	if !set[noRow.ID] {
		t.Fatalf("user without preference row must count as opted in")
	}
	if !set[optedIn.ID] {
		t.Fatalf("opted-in user missing from broadcast list")
	}
	if set[optedOut.ID] {
		t.Fatalf("opted-out user must not be in broadcast list")
	}
	if set[inactive.ID] {
		t.Fatalf("inactive user must not be in broadcast list")
	}

	if _, err := repo.ListActiveOptedIn(ctx, tx, "not-a-category"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unknown category: expected ErrInvalidArgument, got %v", err)
	}
}
