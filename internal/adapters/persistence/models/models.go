package models

import (
	"time"

	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Users & Sessions
// ============================================================

// User represents users table
type User struct {
	ID         uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Username   string                      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password   string                      `gorm:"size:255;not null" json:"-"`
	Role       domain.Role                 `gorm:"size:20;not null;index" json:"role"`
	Name       string                      `gorm:"size:100;not null" json:"name"`
	Phone      string                      `gorm:"size:20" json:"phone"`
	Language   string                      `gorm:"size:10;default:'en'" json:"language"`
	Location   string                      `gorm:"size:200" json:"location"`
	Latitude   *float64                    `json:"latitude"`
	Longitude  *float64                    `json:"longitude"`
	Skills     datatypes.JSONSlice[string] `json:"skills"`
	NationalID string                      `gorm:"size:30" json:"-"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   string      `json:"username"`
	Role       domain.Role `json:"role"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	Language   string      `json:"language"`
	Location   string      `json:"location"`
	Latitude   *float64    `json:"latitude,omitempty"`
	Longitude  *float64    `json:"longitude,omitempty"`
	Skills     []string    `json:"skills"`
	NationalID string      `json:"nationalId,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ToResponse builds the public profile of a user
func (u *User) ToResponse() *UserResponse {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Name:      u.Name,
		Phone:     u.Phone,
		Language:  u.Language,
		Location:  u.Location,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
	}
}

// ToPrivateResponse includes the fields only the owner may see
func (u *User) ToPrivateResponse() *UserResponse {
	resp := u.ToResponse()
	resp.NationalID = u.NationalID
	return resp
}

// Session represents sessions table
type Session struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:char(36);index;not null" json:"userId"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================
// Marketplace
// ============================================================

// Job represents jobs table
type Job struct {
	ID               uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	EmployerID       uuid.UUID                   `gorm:"type:char(36);not null;index" json:"employerId"`
	Title            string                      `gorm:"size:200;not null" json:"title"`
	Description      string                      `gorm:"type:text" json:"description"`
	WorkType         string                      `gorm:"size:50;not null;index" json:"workType"`
	Location         string                      `gorm:"size:200;not null;index" json:"location"`
	Latitude         *float64                    `json:"latitude"`
	Longitude        *float64                    `json:"longitude"`
	WageAmount       int64                       `gorm:"not null" json:"wageAmount"`
	WageUnit         domain.WageUnit             `gorm:"size:10;not null" json:"wageUnit"`
	WorkersNeeded    int                         `gorm:"not null;default:1" json:"workersNeeded"`
	RequiredSkills   datatypes.JSONSlice[string] `json:"requiredSkills"`
	Status           domain.JobStatus            `gorm:"size:20;not null;default:'open';index" json:"status"`
	AssignedWorkerID *uuid.UUID                  `gorm:"type:char(36);index" json:"assignedWorkerId"`
	StartedAt        *time.Time                  `json:"startedAt"`
	CompletedAt      *time.Time                  `json:"completedAt"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Employer       *User `gorm:"foreignKey:EmployerID" json:"-"`
	AssignedWorker *User `gorm:"foreignKey:AssignedWorkerID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether userID posted the job
func (j *Job) IsOwnedBy(userID uuid.UUID) bool {
	return j.EmployerID == userID
}

// IsAssignedTo reports whether userID is the job's assigned worker
func (j *Job) IsAssignedTo(userID uuid.UUID) bool {
	return j.AssignedWorkerID != nil && *j.AssignedWorkerID == userID
}

// JobApplication represents job_applications table
type JobApplication struct {
	ID        uuid.UUID                `gorm:"type:char(36);primaryKey" json:"id"`
	JobID     uuid.UUID                `gorm:"type:char(36);not null;index:idx_application_job_worker" json:"jobId"`
	WorkerID  uuid.UUID                `gorm:"type:char(36);not null;index:idx_application_job_worker;index" json:"workerId"`
	Status    domain.ApplicationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Message   string                   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time                `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Job    *Job  `gorm:"foreignKey:JobID" json:"-"`
	Worker *User `gorm:"foreignKey:WorkerID" json:"-"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Message represents messages table
type Message struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:char(36);not null;index:idx_message_pair" json:"senderId"`
	ReceiverID uuid.UUID  `gorm:"type:char(36);not null;index:idx_message_pair;index" json:"receiverId"`
	JobID      *uuid.UUID `gorm:"type:char(36);index" json:"jobId"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsRead     bool       `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`

	// Relations
	Sender   *User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"-"`
	Job      *Job  `gorm:"foreignKey:JobID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Payment represents payments table
type Payment struct {
	ID                uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	JobID             uuid.UUID            `gorm:"type:char(36);not null;index" json:"jobId"`
	EmployerID        uuid.UUID            `gorm:"type:char(36);not null;index" json:"employerId"`
	WorkerID          uuid.UUID            `gorm:"type:char(36);not null;index" json:"workerId"`
	Amount            int64                `gorm:"not null" json:"amount"`
	Currency          string               `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status            domain.PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod     string               `gorm:"size:30" json:"paymentMethod"`
	RazorpayOrderID   string               `gorm:"size:64;uniqueIndex;not null" json:"razorpayOrderId"`
	// ActiveJobID mirrors JobID while the payment is pending or processing
	// and is NULL otherwise, so a job holds at most one active payment.
	ActiveJobID       *uuid.UUID           `gorm:"type:char(36);uniqueIndex" json:"-"`
	RazorpayPaymentID *string              `gorm:"size:64" json:"razorpayPaymentId"`
	RazorpaySignature *string              `gorm:"size:128" json:"-"`
	FailureReason     *string              `gorm:"type:text" json:"failureReason"`
	PaidAt            *time.Time           `json:"paidAt"`
	CreatedAt         time.Time            `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt         time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Job      *Job  `gorm:"foreignKey:JobID" json:"-"`
	Employer *User `gorm:"foreignKey:EmployerID" json:"-"`
	Worker   *User `gorm:"foreignKey:WorkerID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	if p.Status.IsActive() && p.ActiveJobID == nil {
		jobID := p.JobID
		p.ActiveJobID = &jobID
	}
	return nil
}

// ============================================================
// Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Job{},
		&JobApplication{},
		&Message{},
		&Payment{},
	)
}
