package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadlab/lead-quality-engine/internal/policy"
)

func defaultFields() []string {
	p := policy.Default()
	return FingerprintFields(&p)
}

func TestFingerprintIgnoresFormatting(t *testing.T) {
	fields := defaultFields()
	a := Fingerprint(RawLead{"email": "John@Acme.com", "company": "Acme Corp"}, fields, "v1", "p1")
	b := Fingerprint(RawLead{"Contact_Email": "  john@acme.com ", "Company": "ACME   CORP"}, fields, "v1", "p1")
	assert.Equal(t, a, b)
}

func TestFingerprintChangesWithIdentity(t *testing.T) {
	fields := defaultFields()
	base := Fingerprint(RawLead{"email": "a@b.com"}, fields, "v1", "p1")

	assert.NotEqual(t, base, Fingerprint(RawLead{"email": "c@d.com"}, fields, "v1", "p1"))
	assert.NotEqual(t, base, Fingerprint(RawLead{"email": "a@b.com"}, fields, "v2", "p1"))
	assert.NotEqual(t, base, Fingerprint(RawLead{"email": "a@b.com"}, fields, "v1", "p2"))
}

func TestFingerprintEmptyLeadIsStable(t *testing.T) {
	fields := defaultFields()
	assert.Equal(t,
		Fingerprint(RawLead{}, fields, "v1", "p1"),
		Fingerprint(RawLead{}, fields, "v1", "p1"))
	assert.Len(t, Fingerprint(RawLead{}, fields, "v1", "p1"), 64)
}

func TestFingerprintFieldsFollowPolicy(t *testing.T) {
	base := policy.Default()
	assert.Contains(t, FingerprintFields(&base), FieldEmail)
	assert.NotContains(t, FingerprintFields(&base), FieldWebsite)

	// A policy that counts website toward completeness makes website part
	// of a lead's cache identity, so two leads differing only there must
	// not share an entry.
	extended := policy.Default()
	extended.RequiredFields = append(extended.RequiredFields, FieldWebsite)
	fields := FingerprintFields(&extended)
	assert.Contains(t, fields, FieldWebsite)

	withSite := RawLead{"email": "a@b.com", "website": "https://acme.example"}
	withoutSite := RawLead{"email": "a@b.com"}
	assert.NotEqual(t,
		Fingerprint(withSite, fields, "v1", "p1"),
		Fingerprint(withoutSite, fields, "v1", "p1"))
}
