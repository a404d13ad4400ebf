package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Attachment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID     primitive.ObjectID `bson:"taskId" json:"taskId"`
	FileName   string             `bson:"fileName" json:"fileName"`
	FilePath   string             `bson:"filePath" json:"-"`
	MimeType   string             `bson:"mimeType" json:"mimeType"`
	Size       int64              `bson:"size" json:"size"`
	UploadedBy primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
