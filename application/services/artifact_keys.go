package services

import (
	"fmt"

	"legal-dashboard/domain/entities"
)

// ArtifactKind names a derived artifact stored in the extracted-text bucket.
type ArtifactKind string

const (
	ArtifactExtractedText ArtifactKind = "extracted-text"
	ArtifactAnalysis      ArtifactKind = "analysis"
	ArtifactChat          ArtifactKind = "chat"
)

func (k ArtifactKind) extension() string {
	if k == ArtifactChat {
		return ".json.gz"
	}
	return ".txt.gz"
}

// DocumentObjectKey is where an original upload lives in the documents bucket.
// safeFileName must already be sanitised.
func DocumentObjectKey(clientID, fileNumber, safeFileName string) string {
	return fmt.Sprintf("clients/%s/file-numbers/%s/docs/%s", clientID, fileNumber, safeFileName)
}

// ArtifactKey returns the key of an artifact of doc. Documents created before
// clientId and fileNumber were recorded fall back to a fileId based layout; the
// second result reports that fallback.
func ArtifactKey(kind ArtifactKind, doc *entities.Document) (string, bool) {
	name := doc.DocumentID + kind.extension()
	if doc.HasStorageContext() {
		return fmt.Sprintf("clients/%s/file-numbers/%s/%s/%s", doc.ClientID, doc.FileNumber, kind, name), false
	}
	return fmt.Sprintf("%s/%s/%s", kind, doc.FileID, name), true
}
