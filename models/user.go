package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Global account roles. A global admin bypasses every membership check.
const (
	GlobalRoleAdmin   = "admin"
	GlobalRoleManager = "manager"
	GlobalRoleMember  = "member"
	GlobalRoleViewer  = "viewer"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

// Session is one issued bearer token. Logout removes exactly the presented
// token, so a user can hold several concurrent sessions.
type Session struct {
	Token    string    `bson:"token" json:"-"`
	Device   string    `bson:"device" json:"device"`
	LastUsed time.Time `bson:"lastUsed" json:"lastUsed"`
}

// Invite is a pending team invitation stored on the invited user.
type Invite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    primitive.ObjectID `bson:"teamId" json:"teamId"`
	InviterID primitive.ObjectID `bson:"inviterId" json:"inviterId"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// TaskStats are denormalized counters, overwritten by a full recount.
type TaskStats struct {
	Completed  int `bson:"completed" json:"completed"`
	InProgress int `bson:"inProgress" json:"inProgress"`
	Overdue    int `bson:"overdue" json:"overdue"`
}

type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email" json:"email"`
	Password      string               `bson:"password" json:"-"`
	Role          string               `bson:"role" json:"role"`
	Projects      []primitive.ObjectID `bson:"projects" json:"projects"`
	Teams         []primitive.ObjectID `bson:"teams" json:"teams"`
	Invites       []Invite             `bson:"invites" json:"invites"`
	Sessions      []Session            `bson:"sessions" json:"-"`
	AssignedTasks []primitive.ObjectID `bson:"assignedTasks" json:"assignedTasks"`
	WatchingTasks []primitive.ObjectID `bson:"watchingTasks" json:"watchingTasks"`
	TaskStats     TaskStats            `bson:"taskStats" json:"taskStats"`
	ResetCode     string               `bson:"resetCode,omitempty" json:"-"`
	ResetExpiry   time.Time            `bson:"resetExpiry,omitempty" json:"-"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsGlobalAdmin reports whether the account role bypasses membership checks.
func (u *User) IsGlobalAdmin() bool {
	return u.Role == GlobalRoleAdmin
}
