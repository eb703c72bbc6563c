package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/repos/testutil"
	"github.com/newsloom/newsloom-backend/internal/types"
)

func newTestNotificationService(t *testing.T, tx *gorm.DB) NotificationService {
	t.Helper()
	log := testutil.Logger(t)
	return NewNotificationService(
		tx,
		log,
		repos.NewNotificationRepo(tx, log),
		repos.NewNotificationPreferenceRepo(tx, log),
		repos.NewUserRepo(tx, log),
		repos.NewArticleRepo(tx, log),
		repos.NewAuthorFollowerRepo(tx, log),
	)
}

func TestDispatchCreatesOneUnreadNotification(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "dispatch@example.com")

	n, err := svc.Dispatch(ctx, user.ID, types.NotificationBreakingNews, NotificationPayload{
		Message: "Major event unfolding",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if n.Title != "Breaking News" {
		t.Fatalf("default title: got %q", n.Title)
	}
	if n.IsRead {
		t.Fatalf("new notification must start unread")
	}

	unread, err := svc.CountUnread(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected 1 unread notification, got %d", unread)
	}
}

func TestDispatchUnknownTypeCreatesNothing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "dispatch-unknown@example.com")

	_, err := svc.Dispatch(ctx, user.ID, "carrier_pigeon", NotificationPayload{Message: "coo"})
	if !errors.Is(err, pkgerrors.ErrUnknownNotificationType) {
		t.Fatalf("expected ErrUnknownNotificationType, got %v", err)
	}

	unread, _ := svc.CountUnread(ctx, user.ID)
	if unread != 0 {
		t.Fatalf("unknown type must not persist a row, found %d", unread)
	}
}

func TestDispatchDefaultTitles(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "dispatch-titles@example.com")
	articleID := uuid.New()

	cases := []struct {
		kind      string
		wantTitle string
	}{
		{types.NotificationBreakingNews, "Breaking News"},
		{types.NotificationAuthorUpdate, "New Article from Followed Author"},
		{types.NotificationCommentReply, "New Reply to Your Comment"},
		{types.NotificationArticleLike, "Your Article Was Liked"},
	}
	for _, tc := range cases {
		n, err := svc.Dispatch(ctx, user.ID, tc.kind, NotificationPayload{Message: "m"})
		if err != nil {
			t.Fatalf("Dispatch(%s): %v", tc.kind, err)
		}
		if n.Title != tc.wantTitle {
			t.Fatalf("Dispatch(%s): title %q, want %q", tc.kind, n.Title, tc.wantTitle)
		}
	}

	// Digests never carry a single article association.
	n, err := svc.Dispatch(ctx, user.ID, types.NotificationDailyDigest, NotificationPayload{ArticleID: &articleID})
	if err != nil {
		t.Fatalf("Dispatch(digest): %v", err)
	}
	if n.Title != "Daily News Digest" || n.Message != "Your daily news digest is ready!" {
		t.Fatalf("digest defaults: got title=%q message=%q", n.Title, n.Message)
	}
	if n.ArticleID != nil {
		t.Fatalf("digest must not reference a single article")
	}
}

func TestDispatchSurvivesUnencodableData(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "dispatch-baddata@example.com")

	n, err := svc.Dispatch(ctx, user.ID, types.NotificationBreakingNews, NotificationPayload{
		Message: "m",
		Data:    map[string]any{"bad": make(chan int)},
	})
	if err != nil {
		t.Fatalf("Dispatch must persist despite an unencodable data payload: %v", err)
	}
	if len(n.Data) != 0 {
		t.Fatalf("unencodable payload should leave data empty, got %s", n.Data)
	}
	if unread, _ := svc.CountUnread(ctx, user.ID); unread != 1 {
		t.Fatalf("row must persist without its data payload, unread=%d", unread)
	}
}

func TestSendDailyDigest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "digest@example.com")

	// No recent articles: nothing to send, not an error.
	n, err := svc.SendDailyDigest(ctx, user.ID)
	if err != nil {
		t.Fatalf("SendDailyDigest: %v", err)
	}
	if n != nil {
		t.Fatalf("expected no digest without recent articles, got %+v", n)
	}

	author := testutil.SeedAuthor(t, ctx, tx, "digest-author@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "digest-cat")
	testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, "digest-story", 10, 2, time.Hour)

	n, err = svc.SendDailyDigest(ctx, user.ID)
	if err != nil {
		t.Fatalf("SendDailyDigest: %v", err)
	}
	if n == nil {
		t.Fatalf("expected a digest notification")
	}
	if !strings.Contains(n.Message, "digest-story") {
		t.Fatalf("digest message should name the top story, got %q", n.Message)
	}
}

func TestBroadcastBreakingNewsRespectsOptOut(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	defaulted := testutil.SeedUser(t, ctx, tx, "bcast-default@example.com")
	optedOut := testutil.SeedUser(t, ctx, tx, "bcast-optout@example.com")

	if _, err := svc.UpdatePreferences(ctx, &types.NotificationPreference{
		UserID: optedOut.ID, BreakingNews: false, DailyDigest: true, AuthorAlerts: true, CommentReplies: true,
	}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	sent, err := svc.BroadcastBreakingNews(ctx, nil, "Big story")
	if err != nil {
		t.Fatalf("BroadcastBreakingNews: %v", err)
	}
	if sent < 1 {
		t.Fatalf("expected at least one notification sent, got %d", sent)
	}

	if unread, _ := svc.CountUnread(ctx, defaulted.ID); unread != 1 {
		t.Fatalf("user without preference row must receive broadcast, unread=%d", unread)
	}
	if unread, _ := svc.CountUnread(ctx, optedOut.ID); unread != 0 {
		t.Fatalf("opted-out user must not receive broadcast, unread=%d", unread)
	}
}

func TestNotifyAuthorFollowers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	log := testutil.Logger(t)
	followerRepo := repos.NewAuthorFollowerRepo(tx, log)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "follow-author@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "follow-cat")
	article := testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, "follow-story", 0, 0, time.Hour)

	fan := testutil.SeedUser(t, ctx, tx, "follow-fan@example.com")
	muted := testutil.SeedUser(t, ctx, tx, "follow-muted@example.com")
	if _, err := followerRepo.Create(ctx, tx, fan.ID, author.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := followerRepo.Create(ctx, tx, muted.ID, author.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.UpdatePreferences(ctx, &types.NotificationPreference{
		UserID: muted.ID, BreakingNews: true, DailyDigest: true, AuthorAlerts: false, CommentReplies: true,
	}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	sent, err := svc.NotifyAuthorFollowers(ctx, author.ID, article.ID, article.Title)
	if err != nil {
		t.Fatalf("NotifyAuthorFollowers: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 follower notified, got %d", sent)
	}
	if unread, _ := svc.CountUnread(ctx, fan.ID); unread != 1 {
		t.Fatalf("follower with alerts on must be notified, unread=%d", unread)
	}
	if unread, _ := svc.CountUnread(ctx, muted.ID); unread != 0 {
		t.Fatalf("follower with alerts off must not be notified, unread=%d", unread)
	}
}

func TestMarkReadScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "markread-owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "markread-other@example.com")

	n, err := svc.Dispatch(ctx, owner.ID, types.NotificationBreakingNews, NotificationPayload{Message: "m"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	marked, err := svc.MarkRead(ctx, n.ID, other.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if marked {
		t.Fatalf("a user must not mark another user's notification read")
	}

	marked, err = svc.MarkRead(ctx, n.ID, owner.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !marked {
		t.Fatalf("owner should mark their notification read")
	}
	if unread, _ := svc.CountUnread(ctx, owner.ID); unread != 0 {
		t.Fatalf("unread after MarkRead = %d, want 0", unread)
	}
}

func TestMarkAllRead(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "markall@example.com")
	bystander := testutil.SeedUser(t, ctx, tx, "markall-bystander@example.com")

	for i := 0; i < 3; i++ {
		if _, err := svc.Dispatch(ctx, user.ID, types.NotificationBreakingNews, NotificationPayload{Message: "m"}); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
	if _, err := svc.Dispatch(ctx, bystander.ID, types.NotificationBreakingNews, NotificationPayload{Message: "m"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	count, err := svc.MarkAllRead(ctx, user.ID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count != 3 {
		t.Fatalf("MarkAllRead: marked %d, want 3", count)
	}
	if unread, _ := svc.CountUnread(ctx, bystander.ID); unread != 1 {
		t.Fatalf("MarkAllRead must not touch other users, bystander unread=%d", unread)
	}
}

type panickyChannel struct{}

func (panickyChannel) Name() string                                    { return "panicky" }
func (panickyChannel) Deliver(context.Context, *types.Notification) error { panic("boom") }

type recordingChannel struct {
	delivered int
}

func (r *recordingChannel) Name() string { return "recording" }
func (r *recordingChannel) Deliver(context.Context, *types.Notification) error {
	r.delivered++
	return nil
}

func TestDispatchChannelFailureIsolation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestNotificationService(t, tx)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "channels@example.com")

	recorder := &recordingChannel{}
	svc.RegisterChannel(panickyChannel{})
	svc.RegisterChannel(recorder)

	n, err := svc.Dispatch(ctx, user.ID, types.NotificationBreakingNews, NotificationPayload{Message: "m"})
	if err != nil {
		t.Fatalf("Dispatch must succeed despite channel panic: %v", err)
	}
	if n == nil {
		t.Fatalf("notification should be persisted")
	}
	if recorder.delivered != 1 {
		t.Fatalf("surviving channel should still deliver, delivered=%d", recorder.delivered)
	}
	if unread, _ := svc.CountUnread(ctx, user.ID); unread != 1 {
		t.Fatalf("row must persist regardless of delivery, unread=%d", unread)
	}
}
