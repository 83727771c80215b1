package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

func contractorPrincipal() Principal {
	cid := uuid.New()
	return Principal{UserID: uuid.New(), ContractorID: &cid}
}

func TestCanMutateSchedule_OwnerOnly(t *testing.T) {
	a := contractorPrincipal()
	b := contractorPrincipal()
	client := Principal{UserID: uuid.New()}

	block := &models.ScheduleBlock{ContractorID: *a.ContractorID}

	if CanMutateSchedule(a, block) != Allow {
		t.Fatalf("owner should be allowed")
	}
	if CanMutateSchedule(b, block) != Deny {
		t.Fatalf("other contractor should be denied")
	}
	if CanMutateSchedule(client, block) != Deny {
		t.Fatalf("plain user should be denied")
	}
}

func TestCanMutateAppointment_JointOwnership(t *testing.T) {
	contractor := contractorPrincipal()
	client := Principal{UserID: uuid.New()}
	otherUser := Principal{UserID: uuid.New()}
	otherContractor := contractorPrincipal()

	ap := &models.Appointment{ContractorID: *contractor.ContractorID, UserID: client.UserID}

	cases := []struct {
		name string
		p    Principal
		want Decision
	}{
		{"client", client, Allow},
		{"contractor", contractor, Allow},
		{"unrelated user", otherUser, Deny},
		{"unrelated contractor", otherContractor, Deny},
	}
	for _, tc := range cases {
		if got := CanMutateAppointment(tc.p, ap); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanBookAsContractor(t *testing.T) {
	c := contractorPrincipal()

	if CanBookAsContractor(c, uuid.New()) != Allow {
		t.Fatalf("contractor booking a client should be allowed")
	}
	if CanBookAsContractor(c, c.UserID) != Deny {
		t.Fatalf("contractor booking themselves should be denied")
	}
	if CanBookAsContractor(Principal{UserID: uuid.New()}, uuid.New()) != Deny {
		t.Fatalf("non contractor should be denied")
	}
}

func TestOwnsBookingTargets(t *testing.T) {
	c := contractorPrincipal()
	other := uuid.New()

	own := &models.Service{ContractorID: *c.ContractorID}
	foreign := &models.Service{ContractorID: other}
	block := &models.ScheduleBlock{ContractorID: *c.ContractorID}

	if OwnsBookingTargets(c, own, block) != Allow {
		t.Fatalf("own targets should be allowed")
	}
	if OwnsBookingTargets(c, foreign, block) != Deny {
		t.Fatalf("foreign service should be denied")
	}
}

func TestCanAccess_NilOwners(t *testing.T) {
	if CanAccess(Principal{UserID: uuid.Nil}, nil, nil) != Deny {
		t.Fatalf("nil owners must deny")
	}
	nilID := uuid.Nil
	if CanAccess(Principal{UserID: uuid.Nil}, nil, &nilID) != Deny {
		t.Fatalf("nil user id must not match")
	}
}

func TestRequire(t *testing.T) {
	if err := Require(Allow); err != nil {
		t.Fatalf("allow returned %v", err)
	}
	if httperr.KindOf(Require(Deny)) != httperr.KindForbidden {
		t.Fatalf("deny must be forbidden")
	}
}
