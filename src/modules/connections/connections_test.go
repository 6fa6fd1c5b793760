package connections

import (
	"errors"
	"testing"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/testutil"
	"github.com/google/uuid"
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

func TestRequestConnectionCreatesPending(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)
	receiver := testutil.SeedUser(t, db)

	connection, err := RequestConnection(db, requester, receiver)
	if err != nil {
		t.Fatalf("RequestConnection error: %v", err)
	}
	if connection.Status != models.ConnectionPending {
		t.Fatalf("status = %s, want PENDING", connection.Status)
	}
	if connection.RequesterID != requester || connection.ReceiverID != receiver {
		t.Fatal("pair stored in wrong direction")
	}
}

func TestRequestConnectionDuplicateRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)
	receiver := testutil.SeedUser(t, db)

	if _, err := RequestConnection(db, requester, receiver); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := RequestConnection(db, requester, receiver)
	assertCode(t, err, helpers.CodeDuplicateConnection)

	var n int64
	if err := db.Model(&models.Connection{}).Count(&n).Error; err != nil {
		t.Fatalf("count connections: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestRequestConnectionReverseDirectionAllowed(t *testing.T) {
	// The duplicate check is directional: a prior request from A to B does
	// not block a request from B to A.
	db := testutil.OpenTestDB(t)
	a := testutil.SeedUser(t, db)
	b := testutil.SeedUser(t, db)

	if _, err := RequestConnection(db, a, b); err != nil {
		t.Fatalf("forward request: %v", err)
	}
	if _, err := RequestConnection(db, b, a); err != nil {
		t.Fatalf("reverse request should succeed: %v", err)
	}
}

func TestRequestConnectionSelfRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)

	// Rejected before any lookup, even for a user that does not exist.
	ghost := uuid.New()
	_, err := RequestConnection(db, ghost, ghost)
	assertCode(t, err, helpers.CodeSelfConnection)
}

func TestRequestConnectionUnknownUserRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)

	_, err := RequestConnection(db, requester, uuid.New())
	assertCode(t, err, helpers.CodeUserNotFound)
}

func TestUpdateStatusPermissiveTransitions(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)
	receiver := testutil.SeedUser(t, db)

	connection, err := RequestConnection(db, requester, receiver)
	if err != nil {
		t.Fatalf("RequestConnection error: %v", err)
	}

	// No transition graph: ACCEPTED and back to PENDING are both allowed.
	updated, err := UpdateStatus(db, connection.ID, models.ConnectionAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Status != models.ConnectionAccepted {
		t.Fatalf("status = %s, want ACCEPTED", updated.Status)
	}
	updated, err = UpdateStatus(db, connection.ID, models.ConnectionPending)
	if err != nil {
		t.Fatalf("back to pending: %v", err)
	}
	if updated.Status != models.ConnectionPending {
		t.Fatalf("status = %s, want PENDING", updated.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)
	receiver := testutil.SeedUser(t, db)

	connection, err := RequestConnection(db, requester, receiver)
	if err != nil {
		t.Fatalf("RequestConnection error: %v", err)
	}

	_, err = UpdateStatus(db, connection.ID, "BLOCKED")
	assertCode(t, err, helpers.CodeInvalidStatus)
}

func TestUpdateStatusMissingConnection(t *testing.T) {
	db := testutil.OpenTestDB(t)

	_, err := UpdateStatus(db, uuid.New(), models.ConnectionAccepted)
	assertCode(t, err, helpers.CodeConnectionNotFound)
}

func TestDeleteConnection(t *testing.T) {
	db := testutil.OpenTestDB(t)
	requester := testutil.SeedUser(t, db)
	receiver := testutil.SeedUser(t, db)

	connection, err := RequestConnection(db, requester, receiver)
	if err != nil {
		t.Fatalf("RequestConnection error: %v", err)
	}

	if err := DeleteConnection(db, connection.ID); err != nil {
		t.Fatalf("DeleteConnection error: %v", err)
	}
	assertCode(t, DeleteConnection(db, connection.ID), helpers.CodeConnectionNotFound)
}

func TestListForUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	a := testutil.SeedUser(t, db)
	b := testutil.SeedUser(t, db)
	c := testutil.SeedUser(t, db)

	first, err := RequestConnection(db, a, b)
	if err != nil {
		t.Fatalf("a->b: %v", err)
	}
	if _, err := RequestConnection(db, c, a); err != nil {
		t.Fatalf("c->a: %v", err)
	}
	if _, err := UpdateStatus(db, first.ID, models.ConnectionAccepted); err != nil {
		t.Fatalf("accept a->b: %v", err)
	}

	all, err := ListForUser(db, a, "")
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("connections = %d, want 2", len(all))
	}

	accepted, err := ListForUser(db, a, models.ConnectionAccepted)
	if err != nil {
		t.Fatalf("ListForUser accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != first.ID {
		t.Fatalf("accepted = %v, want only the a->b connection", accepted)
	}
}
