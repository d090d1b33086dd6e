package models

import "time"

// SplitBill groups participants and the expenses shared between them
type SplitBill struct {
	ID           string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string        `gorm:"not null" json:"title"`
	Description  *string       `json:"description"`
	CreatedByID  string        `gorm:"type:varchar(36);index;not null" json:"createdById"`
	Creator      *User         `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Participants []Participant `gorm:"foreignKey:SplitBillID" json:"participants"`
	Expenses     []Expense     `gorm:"foreignKey:SplitBillID" json:"expenses"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`

	ParticipantCount int `gorm:"-" json:"participantCount"`
	ExpenseCount     int `gorm:"-" json:"expenseCount"`
}

// Participant is a person on a split bill. Registered participants carry
// a UserID and appear at most once per bill; guests only have a name and a
// NULL UserID, which never collides in the unique index.
type Participant struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SplitBillID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_bill_participant_user" json:"splitBillId"`
	UserID       *string   `gorm:"type:varchar(36);index;uniqueIndex:idx_bill_participant_user" json:"userId"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name         string    `gorm:"not null" json:"name"`
	Email        *string   `json:"email"`
	IsRegistered bool      `gorm:"not null;default:false" json:"isRegistered"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName keeps participants namespaced under split bills
func (Participant) TableName() string {
	return "split_bill_participants"
}

// HasAccess reports whether userID created the bill or is linked to one of
// its participants.
func (b *SplitBill) HasAccess(userID string) bool {
	if b.CreatedByID == userID {
		return true
	}
	for _, p := range b.Participants {
		if p.UserID != nil && *p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantIDs returns the set of participant ids on the bill
func (b *SplitBill) ParticipantIDs() map[string]bool {
	ids := make(map[string]bool, len(b.Participants))
	for _, p := range b.Participants {
		ids[p.ID] = true
	}
	return ids
}

// Shapes snapshots the contribution shape of every expense on the bill
func (b *SplitBill) Shapes() []ExpenseShape {
	shapes := make([]ExpenseShape, 0, len(b.Expenses))
	for i := range b.Expenses {
		shapes = append(shapes, b.Expenses[i].Shape())
	}
	return shapes
}

// NewParticipant creates a guest or registered participant for a bill
func NewParticipant(id, splitBillID, name string, email, userID *string) *Participant {
	return &Participant{
		ID:           id,
		SplitBillID:  splitBillID,
		UserID:       userID,
		Name:         name,
		Email:        email,
		IsRegistered: userID != nil,
	}
}
