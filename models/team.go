package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team roles, ordered viewer < member < admin.
const (
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
	TeamRoleViewer = "viewer"
)

const (
	TeamMemberStatusPending  = "pending"
	TeamMemberStatusActive   = "active"
	TeamMemberStatusRejected = "rejected"
)

// DefaultMaxTeamMembers caps the member list when TEAM_MAX_MEMBERS is unset.
const DefaultMaxTeamMembers = 50

type TeamPermissions struct {
	CanAddProjects     bool `bson:"canAddProjects" json:"canAddProjects"`
	CanRemoveProjects  bool `bson:"canRemoveProjects" json:"canRemoveProjects"`
	CanViewAllProjects bool `bson:"canViewAllProjects" json:"canViewAllProjects"`
}

type TeamMember struct {
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Role        string             `bson:"role" json:"role"`
	Permissions TeamPermissions    `bson:"permissions" json:"permissions"`
	Status      string             `bson:"status" json:"status"`
	InvitedBy   primitive.ObjectID `bson:"invitedBy,omitempty" json:"invitedBy"`
	JoinedAt    time.Time          `bson:"joinedAt" json:"joinedAt"`
}

type LinkedProject struct {
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	AddedBy   primitive.ObjectID `bson:"addedBy" json:"addedBy"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

type TeamTaskStats struct {
	Total      int `bson:"total" json:"total"`
	Completed  int `bson:"completed" json:"completed"`
	InProgress int `bson:"inProgress" json:"inProgress"`
	Overdue    int `bson:"overdue" json:"overdue"`
}

type Team struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Members   []TeamMember       `bson:"members" json:"members"`
	Projects  []LinkedProject    `bson:"projects" json:"projects"`
	TaskStats TeamTaskStats      `bson:"taskStats" json:"taskStats"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
