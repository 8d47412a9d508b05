package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectPatch_Apply(t *testing.T) {
	name := "renamed"
	empty := ""

	tests := []struct {
		name       string
		patch      ProjectPatch
		wantName   string
		wantDesc   string
		wantFields []string
	}{
		{name: "nothing supplied", patch: ProjectPatch{}, wantName: "orig", wantDesc: "desc", wantFields: []string{}},
		{name: "name only", patch: ProjectPatch{Name: &name}, wantName: "renamed", wantDesc: "desc", wantFields: []string{"name"}},
		{name: "empty description is applied", patch: ProjectPatch{Description: &empty}, wantName: "orig", wantDesc: "", wantFields: []string{"description"}},
		{name: "both", patch: ProjectPatch{Name: &name, Description: &empty}, wantName: "renamed", wantDesc: "", wantFields: []string{"name", "description"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Project{ID: "id-1", Name: "orig", Description: "desc"}
			fields := tc.patch.Apply(p)
			assert.Equal(t, tc.wantName, p.Name)
			assert.Equal(t, tc.wantDesc, p.Description)
			assert.Equal(t, tc.wantFields, fields)
			assert.Equal(t, "id-1", p.ID)
		})
	}
}
