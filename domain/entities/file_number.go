package entities

// FileNumberStatusActive is the default file number status.
const FileNumberStatusActive = "active"

// FileNumber is a case (matter) file. It hangs off a client, a package, or both.
type FileNumber struct {
	FileID      string  `json:"fileId" dynamodbav:"fileId"`
	PackageID   *string `json:"packageId" dynamodbav:"packageId,omitempty"`
	ClientID    *string `json:"clientId" dynamodbav:"clientId,omitempty"`
	FileNumber  string  `json:"fileNumber" dynamodbav:"fileNumber"`
	Description *string `json:"description" dynamodbav:"description"`
	Status      string  `json:"status" dynamodbav:"status"`
	CreatedAt   string  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// LegalContext returns the matter description used to prime the agent, or "".
func (f *FileNumber) LegalContext() string {
	if f == nil || f.Description == nil {
		return ""
	}
	return *f.Description
}

// FileNumberChanges lists the mutable file number fields; nil means unchanged.
type FileNumberChanges struct {
	PackageID   *string `json:"packageId,omitempty"`
	ClientID    *string `json:"clientId,omitempty"`
	FileNumber  *string `json:"fileNumber,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}
