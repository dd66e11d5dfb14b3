package models

import (
	"github.com/go-playground/validator/v10"
)

// CreateChildRequest represents the request body for appending a child
// node under an existing parent
type CreateChildRequest struct {
	ParentID int64   `json:"parent_id" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Data     *string `json:"data,omitempty"`
}

// UpdateNodeRequest represents the request body for partially updating a
// node. Absent fields leave the stored values unchanged.
type UpdateNodeRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Data *string `json:"data,omitempty"`
}

// Validate validates the create child request
func (r *CreateChildRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the update node request
func (r *UpdateNodeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
