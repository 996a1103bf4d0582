package identity

import (
	"errors"
	"testing"
)

func TestAuthorizeAllowsMatchingRole(t *testing.T) {
	actor := Identity{ID: "user-1", Role: RoleEncoder}
	if err := Authorize(actor, RoleEncoder, RoleAdministrator); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeniesMissingRole(t *testing.T) {
	actor := Identity{ID: "user-1", Role: RoleApprover}
	err := Authorize(actor, RoleEncoder)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeDeniesZeroIdentity(t *testing.T) {
	err := Authorize(Identity{}, RoleEncoder)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	err = Authorize(Identity{ID: "user-1"}, RoleEncoder)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for missing role, got %v", err)
	}
}

func TestAuthorizeAdministratorOverridesAnyRequiredSet(t *testing.T) {
	admin := Identity{ID: "admin-1", Role: RoleAdministrator}

	// Administrator is deliberately absent from every required set here.
	sets := [][]Role{
		{RoleEncoder},
		{RoleApprover},
		{RoleEncoder, RoleApprover},
	}
	for _, required := range sets {
		if err := Authorize(admin, required...); err != nil {
			t.Fatalf("administrator denied against %v: %v", required, err)
		}
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"encoder":        RoleEncoder,
		" Approver ":     RoleApprover,
		"ADMINISTRATOR":  RoleAdministrator,
		"superintendent": "",
		"":               "",
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
}
