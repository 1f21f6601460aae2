package entities

import "strings"

// Document is an uploaded file attached to a file number, plus references to
// derived artifacts (extracted text, AI analysis, conversation history) kept in S3.
type Document struct {
	FileID          string  `json:"fileId" dynamodbav:"fileId"`
	DocumentID      string  `json:"documentId" dynamodbav:"documentId"`
	ClientID        string  `json:"clientId" dynamodbav:"clientId"`
	FileNumber      string  `json:"fileNumber" dynamodbav:"fileNumber"`
	FileName        string  `json:"fileName" dynamodbav:"fileName"`
	ContentType     string  `json:"contentType" dynamodbav:"contentType"`
	Size            int64   `json:"size" dynamodbav:"size"`
	S3Key           string  `json:"s3Key" dynamodbav:"s3Key"`
	LatestVersionID *string `json:"latestVersionId" dynamodbav:"latestVersionId"`
	UploadedBy      string  `json:"uploadedBy" dynamodbav:"uploadedBy"`
	CreatedAt       string  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       string  `json:"updatedAt" dynamodbav:"updatedAt"`
	DeletedAt       *string `json:"deletedAt" dynamodbav:"deletedAt"`
	DeletedBy       *string `json:"deletedBy" dynamodbav:"deletedBy"`

	ExtractedTextS3Key           *string `json:"extractedTextS3Key,omitempty" dynamodbav:"extractedTextS3Key,omitempty"`
	ExtractedTextS3UpdatedAt     *string `json:"extractedTextS3UpdatedAt,omitempty" dynamodbav:"extractedTextS3UpdatedAt,omitempty"`
	Analysis                     *string `json:"analysis,omitempty" dynamodbav:"analysis,omitempty"`
	AnalysisS3Key                *string `json:"analysisS3Key,omitempty" dynamodbav:"analysisS3Key,omitempty"`
	AnalysisS3UpdatedAt          *string `json:"analysisS3UpdatedAt,omitempty" dynamodbav:"analysisS3UpdatedAt,omitempty"`
	AnalyzedAt                   *string `json:"analyzedAt,omitempty" dynamodbav:"analyzedAt,omitempty"`
	ConversationHistoryS3Key     *string `json:"conversationHistoryS3Key,omitempty" dynamodbav:"conversationHistoryS3Key,omitempty"`
	ConversationHistoryUpdatedAt *string `json:"conversationHistoryUpdatedAt,omitempty" dynamodbav:"conversationHistoryUpdatedAt,omitempty"`

	// Legacy fields embedded in the item before artifacts moved to S3.
	// They are migrated on read and never written by current code.
	ExtractedText       *string               `json:"-" dynamodbav:"extractedText,omitempty"`
	ConversationHistory []ConversationMessage `json:"-" dynamodbav:"conversationHistory,omitempty"`
}

// IsDeleted reports whether the document was soft deleted.
func (d *Document) IsDeleted() bool {
	return d.DeletedAt != nil && *d.DeletedAt != ""
}

// HasStorageContext reports whether the client/file-number S3 key layout can be used.
func (d *Document) HasStorageContext() bool {
	return d.ClientID != "" && d.FileNumber != ""
}

// LegacyExtractedText returns the embedded extracted text when it is present and not blank.
func (d *Document) LegacyExtractedText() (string, bool) {
	if d.ExtractedText == nil || strings.TrimSpace(*d.ExtractedText) == "" {
		return "", false
	}
	return *d.ExtractedText, true
}

// DocumentChanges describes a partial document update. Nil pointers leave the
// attribute unchanged; the Clear* flags remove attributes.
type DocumentChanges struct {
	ContentType     *string
	Size            *int64
	LatestVersionID *string
	UploadedBy      *string
	DeletedAt       *string
	DeletedBy       *string

	ExtractedTextS3Key           *string
	ExtractedTextS3UpdatedAt     *string
	Analysis                     *string
	AnalysisS3Key                *string
	AnalysisS3UpdatedAt          *string
	AnalyzedAt                   *string
	ConversationHistoryS3Key     *string
	ConversationHistoryUpdatedAt *string

	ClearExtractedText       bool
	ClearConversationHistory bool
	ClearAnalysisS3Key       bool
}

// NewDocument holds the attributes supplied when a document record is first created.
type NewDocument struct {
	DocumentID      string
	ClientID        string
	FileNumber      string
	FileName        string
	ContentType     string
	Size            int64
	S3Key           string
	LatestVersionID *string
	UploadedBy      string
}

// DocumentVersion is one S3 object version of a document.
type DocumentVersion struct {
	VersionID    string `json:"versionId"`
	IsLatest     bool   `json:"isLatest"`
	LastModified string `json:"lastModified"`
	Size         int64  `json:"size"`
}

// analyzableSubtypes are matched as substrings of the content type.
var analyzableSubtypes = []string{
	"pdf",
	"vnd.openxmlformats-officedocument.wordprocessingml.document",
	"plain",
	"markdown",
	"json",
	"xml",
}

// SupportsAnalysis reports whether text can be extracted from contentType.
// Images are rejected; they would need OCR of a different kind.
func SupportsAnalysis(contentType string) bool {
	for _, subtype := range analyzableSubtypes {
		if strings.Contains(contentType, subtype) {
			return true
		}
	}
	return false
}
