package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TimeLogStatusActive    = "active"
	TimeLogStatusPaused    = "paused"
	TimeLogStatusCompleted = "completed"
)

type TimeLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID      primitive.ObjectID `bson:"taskId" json:"taskId"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Duration    int                `bson:"duration" json:"duration"`
	StartTime   time.Time          `bson:"startTime" json:"startTime"`
	EndTime     time.Time          `bson:"endTime" json:"endTime"`
	Description string             `bson:"description" json:"description"`
	Billable    bool               `bson:"billable" json:"billable"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
