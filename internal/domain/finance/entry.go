package finance

import (
	"fmt"
	"strings"
	"time"
)

type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// Entry is one income or expense record for an organization. Amounts are
// stored in cents and are always positive; the entry type carries the sign.
type Entry struct {
	id             uint
	sid            string
	organizationID uint
	entryType      EntryType
	amount         int64
	currency       string
	category       string
	description    string
	occurredAt     time.Time
	createdBy      uint
	createdAt      time.Time
	updatedAt      time.Time
}

func NewEntry(sid string, organizationID uint, entryType EntryType, amount int64, currency, category, description string, occurredAt time.Time, createdBy uint) (*Entry, error) {
	if sid == "" {
		return nil, fmt.Errorf("entry SID is required")
	}
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if !entryType.IsValid() {
		return nil, fmt.Errorf("invalid entry type: %s", entryType)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("currency must be a 3-letter code")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	if occurredAt.IsZero() {
		return nil, fmt.Errorf("occurrence date is required")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator user ID is required")
	}

	now := time.Now()
	return &Entry{
		sid:            sid,
		organizationID: organizationID,
		entryType:      entryType,
		amount:         amount,
		currency:       currency,
		category:       category,
		description:    strings.TrimSpace(description),
		occurredAt:     occurredAt,
		createdBy:      createdBy,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructEntry(id uint, sid string, organizationID uint, entryType EntryType, amount int64, currency, category, description string, occurredAt time.Time, createdBy uint, createdAt, updatedAt time.Time) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("entry ID cannot be zero")
	}

	return &Entry{
		id:             id,
		sid:            sid,
		organizationID: organizationID,
		entryType:      entryType,
		amount:         amount,
		currency:       currency,
		category:       category,
		description:    description,
		occurredAt:     occurredAt,
		createdBy:      createdBy,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (e *Entry) ID() uint {
	return e.id
}

func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entry ID cannot be zero")
	}
	e.id = id
	return nil
}

func (e *Entry) SID() string {
	return e.sid
}

func (e *Entry) OrganizationID() uint {
	return e.organizationID
}

func (e *Entry) Type() EntryType {
	return e.entryType
}

func (e *Entry) Amount() int64 {
	return e.amount
}

func (e *Entry) Currency() string {
	return e.currency
}

func (e *Entry) Category() string {
	return e.category
}

func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *Entry) CreatedBy() uint {
	return e.createdBy
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

// SignedAmount returns the amount negated for expenses.
func (e *Entry) SignedAmount() int64 {
	if e.entryType == EntryTypeExpense {
		return -e.amount
	}
	return e.amount
}

func (e *Entry) Update(entryType EntryType, amount int64, category, description string, occurredAt time.Time) error {
	if !entryType.IsValid() {
		return fmt.Errorf("invalid entry type: %s", entryType)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("category is required")
	}
	if occurredAt.IsZero() {
		return fmt.Errorf("occurrence date is required")
	}
	e.entryType = entryType
	e.amount = amount
	e.category = category
	e.description = strings.TrimSpace(description)
	e.occurredAt = occurredAt
	e.updatedAt = time.Now()
	return nil
}
