package transport

import "encoding/json"

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,min=5,max=255"`
	Password string `json:"password" validate:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TaskCreateRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   bool    `json:"completed"`
}

// TaskUpdateRequest is a partial update; absent fields are left untouched.
// An explicit "description": null clears the description.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   *bool   `json:"completed"`

	DescriptionSet bool `json:"-"`
}

func (r *TaskUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain TaskUpdateRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, decoded.DescriptionSet = keys["description"]

	*r = TaskUpdateRequest(decoded)
	return nil
}
