package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment threads are one level deep: a reply references its parent and
// carries no replies of its own.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TaskID    primitive.ObjectID   `bson:"taskId" json:"taskId"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Content   string               `bson:"content" json:"content"`
	Replies   []primitive.ObjectID `bson:"replies" json:"replies"`
	ParentID  *primitive.ObjectID  `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
