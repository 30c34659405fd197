package user

import "testing"

func TestCanSetStatus_AdminDecisions(t *testing.T) {
	cases := []struct {
		from, to DocStatus
		ok       bool
	}{
		{DocPending, DocVerified, true},
		{DocPending, DocRejected, true},
		{DocVerified, DocRejected, true},
		{DocRejected, DocVerified, true},
		{DocNotUploaded, DocVerified, false},
		{DocNotUploaded, DocRejected, false},
		// pending is only reachable through a fresh upload
		{DocVerified, DocPending, false},
		{DocRejected, DocPending, false},
		{DocPending, DocNotUploaded, false},
	}
	for _, tc := range cases {
		if got := CanSetStatus(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanSetStatus(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestValidDocType(t *testing.T) {
	for _, dt := range RequiredDocTypes {
		if !ValidDocType(dt) {
			t.Errorf("ValidDocType(%s) = false", dt)
		}
	}
	if ValidDocType("DRIVING_LICENSE") {
		t.Error("unknown type accepted")
	}
}

func TestDeriveProfileStatus(t *testing.T) {
	u := &User{Phone: "+911234567890", Address: "x", Occupation: "y", Employer: "z", MonthlyIncome: 1}
	if got := u.DeriveProfileStatus(); got != ProfileComplete {
		t.Fatalf("got %s, want complete", got)
	}
	u.Employer = ""
	if got := u.DeriveProfileStatus(); got != ProfilePending {
		t.Fatalf("got %s, want pending", got)
	}
}
