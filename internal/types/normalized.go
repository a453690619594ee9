package types

// NormalizedSession is the composite read-back view of one session's
// relational projection, one list per derived table.
type NormalizedSession struct {
	Session             *SessionSummary       `json:"session"`
	ExplicitDecisions   []*ExplicitDecision   `json:"explicit_decisions"`
	ExpectedActions     []*ExpectedAction     `json:"expected_actions"`
	CanonicalActions    []*CanonicalAction    `json:"canonical_actions"`
	MechanicEvents      []*MechanicEvent      `json:"mechanic_events"`
	Comparisons         []*Comparison         `json:"comparisons"`
	ProcessLogs         []*ProcessLog         `json:"process_logs"`
	PlayerActionsLog    []*PlayerAction       `json:"player_actions_log"`
	SessionStakeholders []*SessionStakeholder `json:"session_stakeholders"`
	SessionState        *SessionState         `json:"session_state"`
}
