package partner

// CustomerRequest represents a request to create or update a customer
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
	Type    string `json:"type" binding:"omitempty,oneof=WHOLESALE RETAIL"`
	Note    string `json:"note" binding:"max=1000"`
}
