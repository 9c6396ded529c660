package entities

import "time"

type PodStatus string

const (
	PodStatusActive PodStatus = "active"
	PodStatusClosed PodStatus = "closed"
)

type MemberStatus string

const (
	MemberStatusActive MemberStatus = "active"
	MemberStatusLeft   MemberStatus = "left"
)

type ContributionStatus string

const (
	ContributionStatusCompleted ContributionStatus = "completed"
)

type WithdrawalStatus string

const (
	WithdrawalStatusRequested WithdrawalStatus = "requested"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusPaid      WithdrawalStatus = "paid"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// CountsAgainstBalance reports whether the withdrawal has left the pod balance.
func (s WithdrawalStatus) CountsAgainstBalance() bool {
	return s == WithdrawalStatusApproved || s == WithdrawalStatusPaid
}

// PodMember keeps the per-member aggregates the withdrawal guard reads.
// Available = TotalContributed - TotalWithdrawn.
type PodMember struct {
	UserID           string       `json:"user_id"`
	Status           MemberStatus `json:"status"`
	TotalContributed int64        `json:"total_contributed"`
	TotalWithdrawn   int64        `json:"total_withdrawn"`
	Available        int64        `json:"available"`
	JoinedAt         time.Time    `json:"joined_at"`
}

type Contribution struct {
	ID            string             `json:"id"`
	IntentID      string             `json:"intent_id"`
	UserID        string             `json:"user_id"`
	Amount        int64              `json:"amount"`
	Method        ConfirmationMethod `json:"method"`
	CorrelationID string             `json:"correlation_id"`
	Status        ContributionStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

type Withdrawal struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Amount    int64            `json:"amount"`
	Status    WithdrawalStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// SavingsPod is a group-savings ledger.
//
// Storage model (DynamoDB):
//   - PK: id
//   - members: map keyed by user id
//   - contributions / withdrawals: append-only lists
//
// Invariant: CurrentBalance = sum(completed contributions) - sum(approved/paid withdrawals).
type SavingsPod struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Status            PodStatus            `json:"status"`
	Currency          string               `json:"currency"`
	CurrentBalance    int64                `json:"current_balance"`
	TotalContributed  int64                `json:"total_contributed"`
	ContributionCount int64                `json:"contribution_count"`
	Members           map[string]PodMember `json:"members"`
	Contributions     []Contribution       `json:"contributions"`
	Withdrawals       []Withdrawal         `json:"withdrawals"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (p SavingsPod) IsActive() bool {
	return p.Status == PodStatusActive
}

func (p SavingsPod) IsActiveMember(userID string) bool {
	m, ok := p.Members[userID]
	return ok && m.Status == MemberStatusActive
}

// MemberAvailable is the member's own contributions minus own withdrawals.
func (p SavingsPod) MemberAvailable(userID string) int64 {
	return p.Members[userID].Available
}
