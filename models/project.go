package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project roles, ordered viewer < editor < admin.
const (
	ProjectRoleAdmin  = "admin"
	ProjectRoleEditor = "editor"
	ProjectRoleViewer = "viewer"
)

const (
	ProjectTypePersonal = "personal"
	ProjectTypeTeam     = "team"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Workflow length bounds.
const (
	MinWorkflowStages = 1
	MaxWorkflowStages = 10
)

// DefaultWorkflow is applied when a project is created without stages.
var DefaultWorkflow = []string{"To Do", "In Progress", "Review", "Done"}

type ProjectPermissions struct {
	CanEditTasks     bool `bson:"canEditTasks" json:"canEditTasks"`
	CanDeleteTasks   bool `bson:"canDeleteTasks" json:"canDeleteTasks"`
	CanInviteMembers bool `bson:"canInviteMembers" json:"canInviteMembers"`
}

type ProjectMember struct {
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Role        string             `bson:"role" json:"role"`
	Permissions ProjectPermissions `bson:"permissions" json:"permissions"`
	AddedBy     primitive.ObjectID `bson:"addedBy,omitempty" json:"addedBy"`
	AddedAt     time.Time          `bson:"addedAt" json:"addedAt"`
}

type ProjectSettings struct {
	Visibility            string `bson:"visibility" json:"visibility"`
	AllowComments         bool   `bson:"allowComments" json:"allowComments"`
	AllowGuestAccess      bool   `bson:"allowGuestAccess" json:"allowGuestAccess"`
	NotificationFrequency string `bson:"notificationFrequency" json:"notificationFrequency"`
}

type ProjectMetrics struct {
	TotalTasks     int       `bson:"totalTasks" json:"totalTasks"`
	CompletedTasks int       `bson:"completedTasks" json:"completedTasks"`
	LastActivity   time.Time `bson:"lastActivity" json:"lastActivity"`
}

type Project struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	Type        string              `bson:"type" json:"type"`
	TeamID      *primitive.ObjectID `bson:"teamId,omitempty" json:"teamId,omitempty"`
	Members     []ProjectMember     `bson:"members" json:"members"`
	Workflow    []string            `bson:"workflow" json:"workflow"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"`
	Settings    ProjectSettings     `bson:"settings" json:"settings"`
	Tags        []string            `bson:"tags" json:"tags"`
	Metrics     ProjectMetrics      `bson:"metrics" json:"metrics"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
