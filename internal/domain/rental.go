package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusModified  RentalStatus = "modified"
	RentalStatusAccepted  RentalStatus = "accepted"
	RentalStatusRejected  RentalStatus = "rejected"
	RentalStatusOngoing   RentalStatus = "ongoing"
	RentalStatusCompleted RentalStatus = "completed"
)

// IsTerminal reports whether no further transition is defined from s.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusRejected || s == RentalStatusCompleted
}

type PaymentMethod string

const (
	// Cash is the only operational method; card and paypal are accepted
	// on records but settlement happens face-to-face.
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// Party identifies the caller's role relative to a rental record.
type Party string

const (
	PartyOwner  Party = "owner"
	PartyRenter Party = "renter"
	PartyNone   Party = "none"
)

type RentalPeriod struct {
	StartDate string `json:"start_date"` // yyyy-mm-dd
	EndDate   string `json:"end_date"`   // yyyy-mm-dd
}

type MeetingDetails struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Notes    string `json:"notes,omitempty"`
}

type NegotiationType string

const (
	NegotiationTypeRequest NegotiationType = "request"
	NegotiationTypeModify  NegotiationType = "modify"
)

// NegotiationEntry is one immutable element of a rental's negotiation log.
// Entries have no identity outside their rental; they are persisted as a
// child table ordered by SeqNo and are never updated or deleted.
type NegotiationEntry struct {
	SeqNo          int32           `json:"seq_no"`
	Sender         Party           `json:"sender"`
	Type           NegotiationType `json:"type"`
	RentalPeriod   RentalPeriod    `json:"rental_period"`
	MeetingDetails MeetingDetails  `json:"meeting_details"`
	Message        string          `json:"message,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type Rental struct {
	ID             int32              `json:"id"`
	ItemID         int32              `json:"item_id"`
	OwnerID        int32              `json:"owner_id"`
	RenterID       int32              `json:"renter_id"`
	Item           *Item              `json:"item,omitempty"`   // Populated on reads
	Owner          *User              `json:"owner,omitempty"`  // Populated for renter views
	Renter         *User              `json:"renter,omitempty"` // Populated for owner views
	Status         RentalStatus       `json:"status"`
	PaymentMethod  PaymentMethod      `json:"payment_method"`
	RentalPeriod   RentalPeriod       `json:"rental_period"`
	MeetingDetails MeetingDetails     `json:"meeting_details"`
	// Derived by the pricing policy from the item's rate and deposit at the
	// time of the last recompute; never set directly by callers.
	TotalPriceCents int64              `json:"total_price_cents"`
	LastModifiedBy  int32              `json:"last_modified_by"`
	ChatHistory     []NegotiationEntry `json:"chat_history"`
	OwnerReviewed   bool               `json:"owner_reviewed"`
	RenterReviewed  bool               `json:"renter_reviewed"`
	CreatedOn       time.Time          `json:"created_on"`
	UpdatedOn       time.Time          `json:"updated_on"`
}

// PartyOf resolves userID against the record's parties.
func (r *Rental) PartyOf(userID int32) Party {
	switch userID {
	case r.OwnerID:
		return PartyOwner
	case r.RenterID:
		return PartyRenter
	default:
		return PartyNone
	}
}
