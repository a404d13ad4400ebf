package services

import (
	"strings"
	"testing"

	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRemoveAttachmentBlobs(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v, want nil", err)
	}

	var attachments []models.Attachment
	for _, name := range []string{"design.pdf", "notes.txt"} {
		path, _, err := store.Save(name, strings.NewReader("contents"))
		if err != nil {
			t.Fatalf("Save(%q) error = %v, want nil", name, err)
		}
		attachments = append(attachments, models.Attachment{
			ID:       primitive.NewObjectID(),
			FileName: name,
			FilePath: path,
		})
	}

	removeAttachmentBlobs(store, attachments)

	for _, a := range attachments {
		if store.Exists(a.FilePath) {
			t.Errorf("Exists(%q) = true after removeAttachmentBlobs, want false", a.FilePath)
		}
	}
}

func TestRemoveAttachmentBlobsMissingFile(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v, want nil", err)
	}

	// A record whose blob is already gone must not stop the cascade.
	removeAttachmentBlobs(store, []models.Attachment{{
		ID:       primitive.NewObjectID(),
		FilePath: "does/not/exist",
	}})
}

func TestRemoveAttachmentBlobsNilStore(t *testing.T) {
	removeAttachmentBlobs(nil, []models.Attachment{{ID: primitive.NewObjectID()}})
}
