package types

import "encoding/json"

// SessionDocument is the submitted session payload. Every field is
// optional; nested structures that are not decomposed into columns stay
// as raw JSON and are persisted opaquely.
type SessionDocument struct {
	SessionMetadata   SessionMetadata        `json:"session_metadata"`
	ExplicitDecisions []DecisionEntry        `json:"explicit_decisions"`
	ExpectedActions   []ExpectedActionEntry  `json:"expected_actions"`
	CanonicalActions  []CanonicalActionEntry `json:"canonical_actions"`
	MechanicEvents    []MechanicEventEntry   `json:"mechanic_events"`
	Comparisons       []ComparisonEntry      `json:"comparisons"`
	ProcessLog        []ProcessLogEntry      `json:"process_log"`
	PlayerActionsLog  []PlayerActionEntry    `json:"player_actions_log"`
	FinalState        json.RawMessage        `json:"final_state"`
}

type SessionMetadata struct {
	SessionID          OptString `json:"session_id"`
	UserID             OptString `json:"user_id"`
	SimulatorVersionID OptString `json:"simulator_version_id"`
	StartTime          OptString `json:"start_time"`
	EndTime            OptString `json:"end_time"`
}

// DecisionEntry uses the client's camelCase field names.
type DecisionEntry struct {
	NodeID       OptString       `json:"nodeId"`
	ChoiceID     OptString       `json:"choiceId"`
	ChoiceText   OptString       `json:"choiceText"`
	Stakeholder  OptString       `json:"stakeholder"`
	Day          OptInt          `json:"day"`
	TimeSlot     OptString       `json:"timeSlot"`
	Consequences json.RawMessage `json:"consequences"`
}

type ExpectedActionEntry struct {
	ExpectedActionID OptString       `json:"expected_action_id"`
	Source           json.RawMessage `json:"source"`
	ActionType       OptString       `json:"action_type"`
	TargetRef        OptString       `json:"target_ref"`
	Constraints      json.RawMessage `json:"constraints"`
	RuleID           OptString       `json:"rule_id"`
	CreatedAt        OptInt64        `json:"created_at"`
	MechanicID       OptString       `json:"mechanic_id"`
}

// ExpectedActionSource is the decision the prediction came from.
type ExpectedActionSource struct {
	NodeID   OptString `json:"node_id"`
	OptionID OptString `json:"option_id"`
}

type CanonicalActionEntry struct {
	CanonicalActionID OptString       `json:"canonical_action_id"`
	MechanicID        OptString       `json:"mechanic_id"`
	ActionType        OptString       `json:"action_type"`
	TargetRef         OptString       `json:"target_ref"`
	ValueFinal        json.RawMessage `json:"value_final"`
	CommittedAt       OptInt64        `json:"committed_at"`
	Context           json.RawMessage `json:"context"`
}

type MechanicEventEntry struct {
	EventID    OptString       `json:"event_id"`
	MechanicID OptString       `json:"mechanic_id"`
	EventType  OptString       `json:"event_type"`
	Timestamp  OptInt64        `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

type ComparisonEntry struct {
	ExpectedActionID  OptString       `json:"expected_action_id"`
	CanonicalActionID OptString       `json:"canonical_action_id"`
	Outcome           OptString       `json:"outcome"`
	Deviation         json.RawMessage `json:"deviation"`
}

type ProcessLogEntry struct {
	NodeID        OptString       `json:"nodeId"`
	StartTime     OptFloat        `json:"startTime"`
	EndTime       OptFloat        `json:"endTime"`
	TotalDuration OptFloat        `json:"totalDuration"`
	FinalChoice   OptString       `json:"finalChoice"`
	Events        json.RawMessage `json:"events"`
}

type PlayerActionEntry struct {
	Event     OptString       `json:"event"`
	Metadata  json.RawMessage `json:"metadata"`
	Day       OptInt          `json:"day"`
	TimeSlot  OptString       `json:"timeSlot"`
	Timestamp OptFloat        `json:"timestamp"`
}

// FinalStateDoc is the decomposed shape of the final_state section.
type FinalStateDoc struct {
	Stakeholders json.RawMessage `json:"stakeholders"`
	Global       json.RawMessage `json:"global"`
}

// StakeholderEntry is one element of final_state.stakeholders. Identity
// resolves id, then shortId, then name; entries with none are skipped.
type StakeholderEntry struct {
	ID      OptString `json:"id"`
	ShortID OptString `json:"shortId"`
	Name    OptString `json:"name"`
	Role    OptString `json:"role"`
}

// Identity returns the resolved stakeholder id and whether one exists.
func (e StakeholderEntry) Identity() (string, bool) {
	if v, ok := e.ID.Value(); ok && v != "" {
		return v, true
	}
	if v, ok := e.ShortID.Value(); ok && v != "" {
		return v, true
	}
	if v, ok := e.Name.Value(); ok && v != "" {
		return v, true
	}
	return "", false
}
