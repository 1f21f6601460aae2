package entities

// WorkflowStatusDraft is the default workflow status.
const WorkflowStatusDraft = "draft"

// WorkflowStep is a free-form step definition as sent by the web client.
type WorkflowStep map[string]interface{}

// Workflow tracks progress of a package through a series of steps.
type Workflow struct {
	WorkflowID  string         `json:"workflowId" dynamodbav:"workflowId"`
	PackageID   string         `json:"packageId" dynamodbav:"packageId"`
	Name        string         `json:"name" dynamodbav:"name"`
	Description *string        `json:"description" dynamodbav:"description"`
	Status      string         `json:"status" dynamodbav:"status"`
	Steps       []WorkflowStep `json:"steps" dynamodbav:"steps"`
	CurrentStep int            `json:"currentStep" dynamodbav:"currentStep"`
	CreatedAt   string         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string         `json:"updatedAt" dynamodbav:"updatedAt"`
}

// WorkflowChanges lists the mutable workflow fields; nil means unchanged.
type WorkflowChanges struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Steps       []WorkflowStep `json:"steps,omitempty"`
	CurrentStep *int           `json:"currentStep,omitempty"`
}
