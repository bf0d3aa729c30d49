package catalog

// CreateSimTypeRequest represents a request to create a SIM type
type CreateSimTypeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}
