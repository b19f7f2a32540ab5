package domain

import (
	"fmt"
	"time"
)

// TargetKind selects the delivery primitive for one send.
type TargetKind string

const (
	// TargetPush is a durable recipient address usable at any time.
	TargetPush TargetKind = "push"
	// TargetReply is a short-lived single-use token tied to one inbound event.
	TargetReply TargetKind = "reply"
)

func (k TargetKind) String() string { return string(k) }

// Target addresses one delivery. Exactly one of Recipient/ReplyToken is
// meaningful depending on Kind.
type Target struct {
	Kind       TargetKind
	Recipient  string
	ReplyToken string
}

func PushTarget(recipient string) Target {
	return Target{Kind: TargetPush, Recipient: recipient}
}

func ReplyTarget(token string) Target {
	return Target{Kind: TargetReply, ReplyToken: token}
}

// DeliveryStatus is the terminal state of one delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// DeliveryOutcome records one record's delivery result within a run. Outcomes
// feed the run summary and logs only; they are never persisted.
type DeliveryOutcome struct {
	PassportID    string
	Recipient     string
	Status        DeliveryStatus
	FailureReason string
}

// Trigger identifies which stimulus started a run.
type Trigger string

const (
	TriggerInbound   Trigger = "inbound"
	TriggerScheduled Trigger = "scheduled"
)

func (t Trigger) String() string { return string(t) }

// RunSummary aggregates one full query -> compose -> deliver invocation.
type RunSummary struct {
	RunID       string
	Trigger     Trigger
	QueryFailed bool
	Outcomes    []DeliveryOutcome
	StartedAt   time.Time
	Duration    time.Duration
}

func (s *RunSummary) SentCount() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == DeliverySent {
			n++
		}
	}
	return n
}

func (s *RunSummary) FailedCount() int {
	return len(s.Outcomes) - s.SentCount()
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("run %s (%s): %d sent, %d failed", s.RunID, s.Trigger, s.SentCount(), s.FailedCount())
}
