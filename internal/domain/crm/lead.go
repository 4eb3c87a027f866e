package crm

import (
	"fmt"
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusWon       LeadStatus = "WON"
	LeadStatusLost      LeadStatus = "LOST"
)

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a sales prospect scoped to one organization. Notes hold raw
// markdown; rendering and sanitization happen at the interface layer.
type Lead struct {
	id             uint
	sid            string
	organizationID uint
	name           string
	email          string
	phone          string
	company        string
	status         LeadStatus
	notes          string
	assigneeUserID uint
	createdBy      uint
	createdAt      time.Time
	updatedAt      time.Time
}

func NewLead(sid string, organizationID uint, name, email, phone, company string, createdBy uint) (*Lead, error) {
	if sid == "" {
		return nil, fmt.Errorf("lead SID is required")
	}
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("lead name is required")
	}
	if len(name) > 200 {
		return nil, fmt.Errorf("lead name cannot exceed 200 characters")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator user ID is required")
	}

	now := time.Now()
	return &Lead{
		sid:            sid,
		organizationID: organizationID,
		name:           name,
		email:          strings.ToLower(strings.TrimSpace(email)),
		phone:          strings.TrimSpace(phone),
		company:        strings.TrimSpace(company),
		status:         LeadStatusNew,
		createdBy:      createdBy,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructLead(id uint, sid string, organizationID uint, name, email, phone, company string, status LeadStatus, notes string, assigneeUserID, createdBy uint, createdAt, updatedAt time.Time) (*Lead, error) {
	if id == 0 {
		return nil, fmt.Errorf("lead ID cannot be zero")
	}

	return &Lead{
		id:             id,
		sid:            sid,
		organizationID: organizationID,
		name:           name,
		email:          email,
		phone:          phone,
		company:        company,
		status:         status,
		notes:          notes,
		assigneeUserID: assigneeUserID,
		createdBy:      createdBy,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (l *Lead) ID() uint {
	return l.id
}

func (l *Lead) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("lead ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("lead ID cannot be zero")
	}
	l.id = id
	return nil
}

func (l *Lead) SID() string {
	return l.sid
}

func (l *Lead) OrganizationID() uint {
	return l.organizationID
}

func (l *Lead) Name() string {
	return l.name
}

func (l *Lead) Email() string {
	return l.email
}

func (l *Lead) Phone() string {
	return l.phone
}

func (l *Lead) Company() string {
	return l.company
}

func (l *Lead) Status() LeadStatus {
	return l.status
}

func (l *Lead) Notes() string {
	return l.notes
}

func (l *Lead) AssigneeUserID() uint {
	return l.assigneeUserID
}

func (l *Lead) CreatedBy() uint {
	return l.createdBy
}

func (l *Lead) CreatedAt() time.Time {
	return l.createdAt
}

func (l *Lead) UpdatedAt() time.Time {
	return l.updatedAt
}

func (l *Lead) Update(name, email, phone, company string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("lead name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("lead name cannot exceed 200 characters")
	}
	l.name = name
	l.email = strings.ToLower(strings.TrimSpace(email))
	l.phone = strings.TrimSpace(phone)
	l.company = strings.TrimSpace(company)
	l.updatedAt = time.Now()
	return nil
}

func (l *Lead) ChangeStatus(status LeadStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid lead status: %s", status)
	}
	l.status = status
	l.updatedAt = time.Now()
	return nil
}

func (l *Lead) SetNotes(notes string) {
	l.notes = notes
	l.updatedAt = time.Now()
}

func (l *Lead) Assign(userID uint) {
	l.assigneeUserID = userID
	l.updatedAt = time.Now()
}

func (l *Lead) Unassign() {
	l.assigneeUserID = 0
	l.updatedAt = time.Now()
}
