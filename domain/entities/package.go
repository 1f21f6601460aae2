package entities

// Package defaults
const (
	PackageTypeGeneral  = "general"
	PackageStatusDraft  = "draft"
	DocumentsMedical    = "medicalRecords"
	DocumentsAccidents  = "accidentReports"
	DocumentsPhotograph = "photographs"
)

// PackageDocuments groups document references by category.
type PackageDocuments map[string][]interface{}

// DefaultPackageDocuments returns the empty categories every new package starts with.
func DefaultPackageDocuments() PackageDocuments {
	return PackageDocuments{
		DocumentsMedical:    []interface{}{},
		DocumentsAccidents:  []interface{}{},
		DocumentsPhotograph: []interface{}{},
	}
}

// Package is a bundle of documents prepared for a recipient (insurer, court, ...).
type Package struct {
	PackageID    string           `json:"packageId" dynamodbav:"packageId"`
	ClientID     string           `json:"clientId" dynamodbav:"clientId"`
	FileNumberID *string          `json:"fileNumberId" dynamodbav:"fileNumberId,omitempty"`
	Name         string           `json:"name" dynamodbav:"name"`
	Description  *string          `json:"description" dynamodbav:"description"`
	Recipient    *string          `json:"recipient" dynamodbav:"recipient"`
	Type         string           `json:"type" dynamodbav:"type"`
	Status       string           `json:"status" dynamodbav:"status"`
	Documents    PackageDocuments `json:"documents" dynamodbav:"documents"`
	CreatedAt    string           `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    string           `json:"updatedAt" dynamodbav:"updatedAt"`
}

// PackageChanges lists the mutable package fields; nil means unchanged.
type PackageChanges struct {
	FileNumberID *string          `json:"fileNumberId,omitempty"`
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Recipient    *string          `json:"recipient,omitempty"`
	Type         *string          `json:"type,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Documents    PackageDocuments `json:"documents,omitempty"`
}
