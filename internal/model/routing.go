package model

// PeerGroup is a peer support group offered alongside PeerSupport
type PeerGroup struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// RouteResult is the output of the task router
type RouteResult struct {
	Tier             Tier        `json:"tier"`
	Action           Action      `json:"action"`
	Tasks            []Task      `json:"tasks"`
	PeerGroups       []PeerGroup `json:"peerGroups,omitempty"`
	Escalated        bool        `json:"escalated"`
	EscalationNotice string      `json:"escalationNotice,omitempty"`
}
