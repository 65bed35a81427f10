package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/leadlab/lead-quality-engine/internal/policy"
	"github.com/leadlab/lead-quality-engine/internal/textnorm"
)

// Fields that feed the feature vector directly. The completeness ratio
// additionally depends on the policy's required fields, so the full
// identity set comes from FingerprintFields.
var baseFingerprintFields = []string{
	FieldEmail,
	FieldPhone,
	FieldCompany,
	FieldContactName,
	FieldTitle,
	FieldIndustry,
}

// FingerprintFields returns the identity field set for one policy: every
// field that can influence the feature vector, which is the direct
// feature inputs plus whatever the policy counts toward completeness.
// Sorted so the hash order is stable across policy file orderings.
func FingerprintFields(p *policy.Policy) []string {
	seen := make(map[string]bool, len(baseFingerprintFields)+len(p.RequiredFields))
	fields := make([]string, 0, len(baseFingerprintFields)+len(p.RequiredFields))
	for _, group := range [][]string{baseFingerprintFields, p.RequiredFields} {
		for _, name := range group {
			if !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

// Fingerprint derives the cache key for one lead scored under one model
// version and policy revision. Values are folded before hashing so
// formatting-only differences land on the same entry; the model version
// and policy checksum are mixed in so retraining or retuning naturally
// invalidates stale entries.
func Fingerprint(lead RawLead, fields []string, modelVersion, policySum string) string {
	h := sha256.New()
	for _, name := range fields {
		f := lead.Resolve(name)
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(textnorm.Fold(f.Value)))
		h.Write([]byte{0})
	}
	h.Write([]byte(modelVersion))
	h.Write([]byte{0})
	h.Write([]byte(policySum))
	return hex.EncodeToString(h.Sum(nil))
}
