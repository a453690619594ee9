package repos

import (
	"context"
	"testing"

	"github.com/decisionlab/simulator-backend/internal/db/dbtest"
	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/types"
)

func strPtr(s string) *string { return &s }

// Inserts a session referencing pre-seeded users/versions, then child
// rows referencing the session, and checks that deleting the session
// cascades to the children without touching the reference tables. This
// only works when every foreign key lives on the child table.
func TestForeignKeysPointAtParents(t *testing.T) {
	t.Parallel()
	gdb := dbtest.New(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	ctx := context.Background()

	refs := NewReferenceRepo(gdb, log)
	sessions := NewSessionRepo(gdb, log)
	derived := NewDerivedRepo(gdb, log)

	if err := refs.EnsureUsers(ctx, nil, []*types.User{{UserID: "u1", Name: strPtr("u1")}}); err != nil {
		t.Fatalf("ensure users: %v", err)
	}
	if err := refs.EnsureVersions(ctx, nil, []*types.Version{{VersionID: "v1"}}); err != nil {
		t.Fatalf("ensure versions: %v", err)
	}
	if err := sessions.Upsert(ctx, nil, &types.Session{
		SessionID: "s1",
		UserID:    strPtr("u1"),
		VersionID: strPtr("v1"),
		Payload:   "{}",
	}); err != nil {
		t.Fatalf("upsert session: %v", err)
	}

	expected := []*types.ExpectedAction{{ExpectedActionID: "ea1", SessionID: "s1", ActionType: strPtr("adjust")}}
	if err := derived.UpsertExpectedActions(ctx, nil, expected); err != nil {
		t.Fatalf("upsert expected actions: %v", err)
	}
	comparisons := []*types.Comparison{{SessionID: "s1", ExpectedActionID: strPtr("ea1"), Outcome: strPtr("match")}}
	if err := derived.InsertComparisons(ctx, nil, comparisons); err != nil {
		t.Fatalf("insert comparisons: %v", err)
	}

	if err := gdb.Where("session_id = ?", "s1").Delete(&types.Session{}).Error; err != nil {
		t.Fatalf("delete session: %v", err)
	}
	var count int64
	for _, model := range []interface{}{&types.ExpectedAction{}, &types.Comparison{}} {
		if err := gdb.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Fatalf("child rows survived session delete: got=%d want=0", count)
		}
	}
	if err := gdb.Model(&types.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("users got=%d want=1", count)
	}
	if err := gdb.Model(&types.Version{}).Count(&count).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 1 {
		t.Fatalf("versions got=%d want=1", count)
	}
}

// A document-sourced created_at stays NULL when the client omits it; no
// row-tracking timestamp may be filled in for it.
func TestExpectedActionCreatedAtStaysNull(t *testing.T) {
	t.Parallel()
	gdb := dbtest.New(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	ctx := context.Background()

	sessions := NewSessionRepo(gdb, log)
	derived := NewDerivedRepo(gdb, log)

	if err := sessions.Upsert(ctx, nil, &types.Session{SessionID: "s1", Payload: "{}"}); err != nil {
		t.Fatalf("upsert session: %v", err)
	}
	rows := []*types.ExpectedAction{{ExpectedActionID: "ea1", SessionID: "s1"}}
	if err := derived.UpsertExpectedActions(ctx, nil, rows); err != nil {
		t.Fatalf("upsert expected actions: %v", err)
	}

	var got types.ExpectedAction
	if err := gdb.Where("expected_action_id = ?", "ea1").First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.CreatedAt != nil {
		t.Fatalf("created_at got=%d want=nil", *got.CreatedAt)
	}
}
