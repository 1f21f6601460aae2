package entities

// Client statuses
const (
	ClientStatusActive = "active"
)

// Client is a law-firm client owned by the user who created it.
type Client struct {
	ClientID  string  `json:"clientId" dynamodbav:"clientId"`
	UserID    string  `json:"userId" dynamodbav:"userId"`
	Name      string  `json:"name" dynamodbav:"name"`
	Email     string  `json:"email" dynamodbav:"email"`
	Phone     *string `json:"phone" dynamodbav:"phone"`
	Address   *string `json:"address" dynamodbav:"address"`
	Status    string  `json:"status" dynamodbav:"status"`
	CreatedAt string  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// ClientChanges lists the mutable client fields; nil means unchanged.
type ClientChanges struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
}
