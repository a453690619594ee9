package services

import (
	"bytes"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/decisionlab/simulator-backend/internal/types"
)

// RowSet is the full relational projection of one session document:
// everything the repository must persist for that session, plus the
// per-table counts reported back to the caller.
type RowSet struct {
	Session *types.Session

	Users        []*types.User
	Versions     []*types.Version
	Mechanics    []*types.Mechanic
	Stakeholders []*types.Stakeholder

	ExplicitDecisions   []*types.ExplicitDecision
	ExpectedActions     []*types.ExpectedAction
	CanonicalActions    []*types.CanonicalAction
	MechanicEvents      []*types.MechanicEvent
	Comparisons         []*types.Comparison
	ProcessLogs         []*types.ProcessLog
	PlayerActions       []*types.PlayerAction
	SessionState        *types.SessionState
	SessionStakeholders []*types.SessionStakeholder

	Counts Counts
}

// Counts reports how many rows each document section produced. Key
// names match the document sections, not the table names.
type Counts struct {
	ExplicitDecisions int `json:"explicit_decisions"`
	ExpectedActions   int `json:"expected_actions"`
	CanonicalActions  int `json:"canonical_actions"`
	MechanicEvents    int `json:"mechanic_events"`
	Comparisons       int `json:"comparisons"`
	ProcessLog        int `json:"process_log"`
	PlayerActionsLog  int `json:"player_actions_log"`
}

// NormalizeSession flattens a session document into a RowSet. It is a
// pure function: the same inputs always produce the same rows, and it
// never fails — every document field is optional and normalizes to an
// absent column when missing or malformed. The caller must have
// validated the session id already.
func NormalizeSession(sessionID string, doc *types.SessionDocument, raw []byte, createdAt time.Time) *RowSet {
	meta := doc.SessionMetadata
	userID := meta.UserID.Ptr()
	versionID := meta.SimulatorVersionID.Ptr()

	rs := &RowSet{
		Session: &types.Session{
			SessionID: sessionID,
			UserID:    userID,
			VersionID: versionID,
			StartTime: meta.StartTime.Ptr(),
			EndTime:   meta.EndTime.Ptr(),
			CreatedAt: createdAt,
			Payload:   string(raw),
		},
	}

	if userID != nil && *userID != "" {
		// The registry has no name source at ingest time; the id doubles
		// as the initial display name.
		rs.Users = append(rs.Users, &types.User{UserID: *userID, Name: userID})
	}
	if versionID != nil && *versionID != "" {
		rs.Versions = append(rs.Versions, &types.Version{VersionID: *versionID, CreatedAt: createdAt})
	}

	for _, d := range doc.ExplicitDecisions {
		rs.ExplicitDecisions = append(rs.ExplicitDecisions, &types.ExplicitDecision{
			SessionID:    sessionID,
			NodeID:       d.NodeID.Ptr(),
			OptionID:     d.ChoiceID.Ptr(),
			OptionText:   d.ChoiceText.Ptr(),
			Stakeholder:  d.Stakeholder.Ptr(),
			Day:          d.Day.Ptr(),
			TimeSlot:     d.TimeSlot.Ptr(),
			Consequences: opaque(d.Consequences),
		})
	}

	for _, a := range doc.ExpectedActions {
		id, ok := a.ExpectedActionID.Value()
		if !ok || id == "" {
			continue
		}
		var source types.ExpectedActionSource
		decodeLoose(a.Source, &source)
		rs.ExpectedActions = append(rs.ExpectedActions, &types.ExpectedAction{
			ExpectedActionID: id,
			SessionID:        sessionID,
			SourceNodeID:     source.NodeID.Ptr(),
			SourceOptionID:   source.OptionID.Ptr(),
			ActionType:       a.ActionType.Ptr(),
			TargetRef:        a.TargetRef.Ptr(),
			Constraints:      opaque(a.Constraints),
			RuleID:           a.RuleID.Ptr(),
			CreatedAt:        a.CreatedAt.Ptr(),
			MechanicID:       a.MechanicID.Ptr(),
		})
	}

	mechanicSeen := make(map[string]bool)
	addMechanic := func(id types.OptString) {
		v, ok := id.Value()
		if !ok || v == "" || mechanicSeen[v] {
			return
		}
		mechanicSeen[v] = true
		rs.Mechanics = append(rs.Mechanics, &types.Mechanic{MechanicID: v, VersionID: versionID})
	}

	for _, a := range doc.CanonicalActions {
		id, ok := a.CanonicalActionID.Value()
		if !ok || id == "" {
			continue
		}
		addMechanic(a.MechanicID)
		rs.CanonicalActions = append(rs.CanonicalActions, &types.CanonicalAction{
			CanonicalActionID: id,
			SessionID:         sessionID,
			MechanicID:        a.MechanicID.Ptr(),
			ActionType:        a.ActionType.Ptr(),
			TargetRef:         a.TargetRef.Ptr(),
			ValueFinal:        opaque(a.ValueFinal),
			CommittedAt:       a.CommittedAt.Ptr(),
			Context:           opaque(a.Context),
		})
	}

	for _, e := range doc.MechanicEvents {
		id, ok := e.EventID.Value()
		if !ok || id == "" {
			continue
		}
		addMechanic(e.MechanicID)
		rs.MechanicEvents = append(rs.MechanicEvents, &types.MechanicEvent{
			EventID:    id,
			SessionID:  sessionID,
			MechanicID: e.MechanicID.Ptr(),
			EventType:  e.EventType.Ptr(),
			Timestamp:  e.Timestamp.Ptr(),
			Payload:    opaque(e.Payload),
		})
	}

	for _, c := range doc.Comparisons {
		rs.Comparisons = append(rs.Comparisons, &types.Comparison{
			SessionID:         sessionID,
			ExpectedActionID:  c.ExpectedActionID.Ptr(),
			CanonicalActionID: c.CanonicalActionID.Ptr(),
			Outcome:           c.Outcome.Ptr(),
			Deviation:         opaque(c.Deviation),
		})
	}

	for _, p := range doc.ProcessLog {
		rs.ProcessLogs = append(rs.ProcessLogs, &types.ProcessLog{
			SessionID:     sessionID,
			NodeID:        p.NodeID.Ptr(),
			StartTime:     p.StartTime.Ptr(),
			EndTime:       p.EndTime.Ptr(),
			TotalDuration: p.TotalDuration.Ptr(),
			FinalChoice:   p.FinalChoice.Ptr(),
			Events:        opaque(p.Events),
		})
	}

	for _, p := range doc.PlayerActionsLog {
		rs.PlayerActions = append(rs.PlayerActions, &types.PlayerAction{
			SessionID: sessionID,
			Event:     p.Event.Ptr(),
			Metadata:  opaque(p.Metadata),
			Day:       p.Day.Ptr(),
			TimeSlot:  p.TimeSlot.Ptr(),
			Timestamp: p.Timestamp.Ptr(),
		})
	}

	if finalStatePresent(doc.FinalState) {
		var finalState types.FinalStateDoc
		decodeLoose(doc.FinalState, &finalState)
		rs.SessionState = &types.SessionState{
			SessionID:    sessionID,
			Stakeholders: opaque(finalState.Stakeholders),
			GlobalState:  opaque(finalState.Global),
		}

		var entries []json.RawMessage
		decodeLoose(finalState.Stakeholders, &entries)
		stakeholderSeen := make(map[string]bool)
		for _, rawEntry := range entries {
			var entry types.StakeholderEntry
			decodeLoose(rawEntry, &entry)
			id, ok := entry.Identity()
			if !ok || stakeholderSeen[id] {
				continue
			}
			stakeholderSeen[id] = true
			rs.Stakeholders = append(rs.Stakeholders, &types.Stakeholder{
				StakeholderID: id,
				Name:          entry.Name.Ptr(),
				Role:          entry.Role.Ptr(),
			})
			rs.SessionStakeholders = append(rs.SessionStakeholders, &types.SessionStakeholder{
				SessionID:     sessionID,
				StakeholderID: id,
				State:         opaque(rawEntry),
			})
		}
	}

	rs.Counts = Counts{
		ExplicitDecisions: len(doc.ExplicitDecisions),
		ExpectedActions:   len(doc.ExpectedActions),
		CanonicalActions:  len(doc.CanonicalActions),
		MechanicEvents:    len(doc.MechanicEvents),
		Comparisons:       len(doc.Comparisons),
		ProcessLog:        len(doc.ProcessLog),
		PlayerActionsLog:  len(doc.PlayerActionsLog),
	}
	return rs
}

// opaque converts a raw nested field to its stored form. Absent and
// JSON-null fields become a null column, not an empty placeholder.
func opaque(raw json.RawMessage) datatypes.JSON {
	if !present(raw) {
		return nil
	}
	return datatypes.JSON(raw)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// finalStatePresent reports whether final_state carries anything worth
// a session_state row. An empty object counts as absent.
func finalStatePresent(raw json.RawMessage) bool {
	if !present(raw) {
		return false
	}
	var fields map[string]json.RawMessage
	decodeLoose(raw, &fields)
	return len(fields) > 0
}

// decodeLoose unmarshals best-effort: an absent or mismatched shape
// leaves the target at its zero value instead of returning an error.
func decodeLoose(raw json.RawMessage, target interface{}) {
	if !present(raw) {
		return
	}
	_ = json.Unmarshal(raw, target)
}
