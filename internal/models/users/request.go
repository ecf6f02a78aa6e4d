package models

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Img     *string `json:"img,omitempty"`
	Email   *string `json:"email,omitempty"`
}

func (r *UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Surname == nil && r.Img == nil && r.Email == nil
}
