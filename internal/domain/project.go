package domain

import "time"

// Project is the sole persisted entity. ID doubles as the document store partition key.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectPatch carries the fields of a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Apply copies the supplied fields onto p and returns the names of the fields it set.
func (patch ProjectPatch) Apply(p *Project) []string {
	fields := []string{}
	if patch.Name != nil {
		p.Name = *patch.Name
		fields = append(fields, "name")
	}
	if patch.Description != nil {
		p.Description = *patch.Description
		fields = append(fields, "description")
	}
	return fields
}
