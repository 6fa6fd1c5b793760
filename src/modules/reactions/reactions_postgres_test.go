package reactions

import (
	"sync"
	"testing"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/testutil"
	"github.com/google/uuid"
)

// Two concurrent upserts for the same (user, post) pair on a real Postgres.
// Whichever INSERT loses the race hits the unique index, and the recovery path
// must fold its type onto the winner's row; both calls succeed and exactly one
// row survives.
func TestUpsertReactionConcurrentSamePair(t *testing.T) {
	db := testutil.OpenPostgresTestDB(t)
	owner := testutil.SeedUser(t, db)
	reactor := testutil.SeedUser(t, db)
	postID := testutil.SeedPost(t, db, owner)

	types := []string{models.ReactionLike, models.ReactionLove}
	errs := make([]error, len(types))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, typ := range types {
		wg.Add(1)
		go func(i int, typ string) {
			defer wg.Done()
			<-start
			_, _, errs[i] = UpsertReaction(db, reactor, UpsertInput{PostID: postID, Type: typ})
		}(i, typ)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("upsert %s: %v", types[i], err)
		}
	}
	if n := countRows(t, db, reactor, postID, uuid.Nil); n != 1 {
		t.Fatalf("rows = %d, want 1 after concurrent upserts", n)
	}

	var reaction models.Reaction
	if err := db.Where("user_id = ? AND post_id = ?", reactor, postID).First(&reaction).Error; err != nil {
		t.Fatalf("fetch reaction: %v", err)
	}
	if reaction.Type != models.ReactionLike && reaction.Type != models.ReactionLove {
		t.Fatalf("type = %s, want one of the two written types", reaction.Type)
	}
}
