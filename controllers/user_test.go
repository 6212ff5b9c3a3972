package controllers

import (
	"testing"

	"engagement-api/models"
)

func intPtr(i int) *int { return &i }

func TestTargetInstitute(t *testing.T) {
	tests := []struct {
		name      string
		roleID    int
		own       int
		requested *int
		want      int
		wantErr   bool
	}{
		{"admin uses own institute", models.RoleInstituteAdmin, 4, nil, 4, false},
		{"admin cannot redirect to another institute", models.RoleInstituteAdmin, 4, intPtr(9), 4, false},
		{"superuser names the institute", models.RoleSuperuser, 0, intPtr(9), 9, false},
		{"superuser without institute is refused", models.RoleSuperuser, 0, nil, 0, true},
		{"superuser with zero institute is refused", models.RoleSuperuser, 0, intPtr(0), 0, true},
	}

	for _, tt := range tests {
		got, err := targetInstitute(tt.roleID, tt.own, tt.requested)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got institute %d, want %d", tt.name, got, tt.want)
		}
	}
}
