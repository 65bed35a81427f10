package core

import (
	"strings"

	"github.com/leadlab/lead-quality-engine/internal/policy"
	"github.com/leadlab/lead-quality-engine/internal/textnorm"
)

// Validator performs the structural per-field checks that feed feature
// extraction. All checks are pure and total: garbage in yields low
// confidence out, never an error. No network lookups of any kind.
type Validator struct {
	policy *policy.Policy
}

// NewValidator creates a new validator bound to a scoring policy.
func NewValidator(p *policy.Policy) *Validator {
	return &Validator{policy: p}
}

// Validate derives the validation signals for one lead. Fields the source
// never provided are not degradations; fields provided but unparseable
// are, and get recorded for reporting.
func (v *Validator) Validate(lead RawLead) ValidationSignals {
	var s ValidationSignals

	if email := lead.Resolve(FieldEmail); email.Present {
		var reason string
		s.EmailValid, s.EmailConfidence, reason = v.analyzeEmail(email.Value)
		if reason != "" {
			s.Degradations = append(s.Degradations, Degradation{Field: FieldEmail, Reason: reason})
		}
	}

	if phone := lead.Resolve(FieldPhone); phone.Present {
		var reason string
		s.PhoneValid, s.PhoneConfidence, reason = v.analyzePhone(phone.Value)
		if reason != "" {
			s.Degradations = append(s.Degradations, Degradation{Field: FieldPhone, Reason: reason})
		}
	}

	return s
}

// CheckEmail returns (is_syntactically_valid, confidence) for a candidate
// email address.
func (v *Validator) CheckEmail(email string) (bool, float64) {
	valid, confidence, _ := v.analyzeEmail(email)
	return valid, confidence
}

// CheckPhone returns (is_valid, confidence) for a candidate phone number.
func (v *Validator) CheckPhone(phone string) (bool, float64) {
	valid, confidence, _ := v.analyzePhone(phone)
	return valid, confidence
}

func (v *Validator) analyzeEmail(email string) (valid bool, confidence float64, reason string) {
	if IsBlank(email) {
		return false, 0, ""
	}

	local, domain, ok := splitEmail(email)
	if !ok {
		return false, 0.2, "not a parseable address"
	}
	if v.policy.IsDisposableDomain(domain) {
		return false, 0.25, "disposable domain"
	}
	if v.policy.IsFakeTerm(local) || v.policy.IsFakeTerm(firstLabel(domain)) || v.policy.IsFakeTerm(lastLabel(domain)) {
		return false, 0.3, "placeholder address"
	}
	if v.policy.IsPersonalDomain(domain) {
		return true, 0.7, ""
	}
	return true, 1.0, ""
}

func (v *Validator) analyzePhone(phone string) (valid bool, confidence float64, reason string) {
	if IsBlank(phone) {
		return false, 0, ""
	}

	digits := textnorm.Digits(phone)
	plus := strings.HasPrefix(strings.TrimSpace(phone), "+")
	switch {
	case digits == "":
		return false, 0.1, "no digits"
	case len(digits) < 7:
		return false, 0.2, "too few digits"
	case len(digits) > 15:
		return false, 0.2, "too many digits"
	case len(digits) == 10 || len(digits) == 11:
		return true, 1.0, ""
	case plus && len(digits) >= 12:
		return true, 0.95, ""
	default:
		return true, 0.7, ""
	}
}

// splitEmail applies the structural rules: exactly one @, a non-empty
// local part, a dotted domain with no empty labels, no whitespace. The
// returned domain is folded for list lookups.
func splitEmail(addr string) (local, domain string, ok bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" || strings.ContainsAny(addr, " \t") {
		return "", "", false
	}
	if strings.Count(addr, "@") != 1 {
		return "", "", false
	}
	at := strings.IndexByte(addr, '@')
	local, domain = addr[:at], textnorm.Fold(addr[at+1:])
	if local == "" || domain == "" {
		return "", "", false
	}
	if !strings.Contains(domain, ".") {
		return "", "", false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return "", "", false
	}
	return local, domain, true
}

func firstLabel(domain string) string {
	if i := strings.IndexByte(domain, '.'); i > 0 {
		return domain[:i]
	}
	return domain
}

func lastLabel(domain string) string {
	if i := strings.LastIndexByte(domain, '.'); i >= 0 && i < len(domain)-1 {
		return domain[i+1:]
	}
	return domain
}
