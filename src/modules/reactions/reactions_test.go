package reactions

import (
	"errors"
	"testing"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *helpers.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError with code %s, got %v", code, err)
	}
	if apiErr.Code != code {
		t.Fatalf("code = %s, want %s", apiErr.Code, code)
	}
}

func countRows(t *testing.T, db *gorm.DB, userID, postID, commentID uuid.UUID) int64 {
	t.Helper()
	var n int64
	err := db.Model(&models.Reaction{}).
		Where("user_id = ? AND post_id = ? AND comment_id = ?", userID, postID, commentID).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count reactions: %v", err)
	}
	return n
}

func TestUpsertReactionCreatesRow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	reaction, mutated, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLike})
	if err != nil {
		t.Fatalf("UpsertReaction error: %v", err)
	}
	if !mutated {
		t.Fatal("expected mutated=true for a new reaction")
	}
	if reaction.Type != models.ReactionLike {
		t.Fatalf("type = %s, want LIKE", reaction.Type)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestUpsertReactionIdempotentSameType(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	first, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLove})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, mutated, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLove})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if mutated {
		t.Fatal("identical repeat call must be a no-op")
	}
	if first.ID != second.ID {
		t.Fatalf("row id changed across identical calls: %s vs %s", first.ID, second.ID)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestUpsertReactionSwitchesTypeInPlace(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	first, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLike})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, mutated, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLove})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !mutated {
		t.Fatal("type switch must report mutated=true")
	}
	if first.ID != second.ID {
		t.Fatalf("type switch created a new row: %s vs %s", first.ID, second.ID)
	}
	if second.Type != models.ReactionLove {
		t.Fatalf("type = %s, want LOVE", second.Type)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestUpsertReactionLastWriterWins(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	sequence := []string{
		models.ReactionLike,
		models.ReactionInsightful,
		models.ReactionInsightful,
		models.ReactionSupport,
		models.ReactionLove,
	}
	for _, typ := range sequence {
		if _, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: typ}); err != nil {
			t.Fatalf("upsert %s: %v", typ, err)
		}
	}

	var reaction models.Reaction
	if err := db.Where("user_id = ? AND post_id = ?", reactor, postID).First(&reaction).Error; err != nil {
		t.Fatalf("fetch reaction: %v", err)
	}
	if reaction.Type != models.ReactionLove {
		t.Fatalf("type = %s, want the last written LOVE", reaction.Type)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

// A create callback slips a competing row for the same (user, target) pair
// into the transaction right before the upsert's own INSERT runs, which forces
// the duplicate-key path: the upsert must adopt the existing row and apply its
// type there instead of failing or inserting a second row.
func TestUpsertReactionRecoversFromLostInsertRace(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	winnerID := uuid.New()
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("inject_competing_reaction", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "reactions" {
			return
		}
		injected = true
		// Raw SQL on the same transaction connection; a NewDB session keeps
		// the ConnPool but skips the create callbacks, so no recursion.
		res := tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO reactions (id, user_id, post_id, comment_id, type, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			winnerID, reactor, postID, uuid.Nil, models.ReactionLike)
		if res.Error != nil {
			t.Errorf("inject competing reaction: %v", res.Error)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Create().Remove("inject_competing_reaction")

	reaction, mutated, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLove})
	if err != nil {
		t.Fatalf("UpsertReaction error: %v", err)
	}
	if !injected {
		t.Fatal("callback never fired, the duplicate-key path was not exercised")
	}
	if reaction.ID != winnerID {
		t.Fatalf("row id = %s, want the competing row %s adopted", reaction.ID, winnerID)
	}
	if !mutated {
		t.Fatal("type differs from the competing row, expected mutated=true")
	}
	if reaction.Type != models.ReactionLove {
		t.Fatalf("type = %s, want LOVE applied to the competing row", reaction.Type)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestUpsertReactionCommentTarget(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)
	commentID := testutil.SeedComment(t, db, postID, owner)

	reaction, _, err := UpsertReaction(db, reactor, UpsertInput{CommentID: commentID, Type: models.ReactionSupport})
	if err != nil {
		t.Fatalf("UpsertReaction error: %v", err)
	}
	if reaction.CommentID != commentID || reaction.PostID != uuid.Nil {
		t.Fatalf("target mismatch: post=%s comment=%s", reaction.PostID, reaction.CommentID)
	}
}

func TestUpsertReactionRejectsBadTarget(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)
	commentID := testutil.SeedComment(t, db, postID, owner)

	_, _, err := UpsertReaction(db, reactor, UpsertInput{Type: models.ReactionLike})
	assertCode(t, err, helpers.CodeInvalidTarget)

	_, _, err = UpsertReaction(db, reactor, UpsertInput{PostID: postID, CommentID: commentID, Type: models.ReactionLike})
	assertCode(t, err, helpers.CodeInvalidTarget)
}

func TestUpsertReactionRejectsUnknownType(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	_, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: "DISLIKE"})
	assertCode(t, err, helpers.CodeInvalidReactionType)
}

func TestUpsertReactionReferentialChecks(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	_, _, err := UpsertReaction(db, uuid.New(), UpsertInput{PostID: postID, Type: models.ReactionLike})
	assertCode(t, err, helpers.CodeUserNotFound)

	_, _, err = UpsertReaction(db, reactor, UpsertInput{PostID: uuid.New(), Type: models.ReactionLike})
	assertCode(t, err, helpers.CodePostNotFound)

	_, _, err = UpsertReaction(db, reactor, UpsertInput{CommentID: uuid.New(), Type: models.ReactionLike})
	assertCode(t, err, helpers.CodeCommentNotFound)
}

func TestDeleteReaction(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	reaction, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: models.ReactionLike})
	if err != nil {
		t.Fatalf("UpsertReaction error: %v", err)
	}

	if err := DeleteReaction(db, reaction.ID); err != nil {
		t.Fatalf("DeleteReaction error: %v", err)
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 0 {
		t.Fatalf("rows = %d, want 0 after delete", n)
	}

	assertCode(t, DeleteReaction(db, reaction.ID), helpers.CodeReactionNotFound)
}

func TestCountForTargetAggregates(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	for _, typ := range []string{models.ReactionLike, models.ReactionLike, models.ReactionLove} {
		reactor := testutil.SeedUser(t, db)
		if _, _, err := UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: typ}); err != nil {
			t.Fatalf("upsert %s: %v", typ, err)
		}
	}

	counts, err := CountForTarget(db, postID, uuid.Nil)
	if err != nil {
		t.Fatalf("CountForTarget error: %v", err)
	}
	if counts[models.ReactionLike] != 2 || counts[models.ReactionLove] != 1 {
		t.Fatalf("counts = %v, want LIKE=2 LOVE=1", counts)
	}
}
