package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leadlab/lead-quality-engine/internal/textnorm"
)

// SeniorityRule maps job-title terms to a seniority weight. Single-word
// terms match whole tokens of the normalized title, multi-word terms match
// as substrings, so "vp" matches "VP of Sales" but not "RSVP Coordinator".
type SeniorityRule struct {
	Level  string   `yaml:"level"`
	Weight float64  `yaml:"weight"`
	Any    []string `yaml:"any"`
}

// IndustryRule maps industry terms to a fit weight.
type IndustryRule struct {
	Segment string   `yaml:"segment"`
	Fit     float64  `yaml:"fit"`
	Any     []string `yaml:"any"`
}

// TierBoundary assigns a category to every score at or above MinScore that
// no earlier boundary claimed. A score on the boundary belongs to the
// higher tier.
type TierBoundary struct {
	Category string  `yaml:"category"`
	MinScore float64 `yaml:"min_score"`
}

// Policy is the tunable part of lead scoring: which fields count toward
// completeness, how titles and industries map to weights, which email
// domains are discounted, and where the tier boundaries sit. Everything
// here can be overridden from a YAML file without touching the model.
type Policy struct {
	RequiredFields []string `yaml:"required_fields"`

	Seniority struct {
		Rules         []SeniorityRule `yaml:"rules"`
		UnknownWeight float64         `yaml:"unknown_weight"`
	} `yaml:"seniority"`

	Industry struct {
		Rules      []IndustryRule `yaml:"rules"`
		NeutralFit float64        `yaml:"neutral_fit"`
	} `yaml:"industry"`

	Email struct {
		PersonalDomains   []string `yaml:"personal_domains"`
		DisposableDomains []string `yaml:"disposable_domains"`
		FakeTerms         []string `yaml:"fake_terms"`
	} `yaml:"email"`

	Tiers []TierBoundary `yaml:"tiers"`
}

// Default returns the built-in policy. Load starts from this, so a policy
// file only needs the sections it wants to change.
func Default() Policy {
	var p Policy

	p.RequiredFields = []string{"company", "contact_name", "email", "phone", "title", "industry"}

	p.Seniority.UnknownWeight = 0.2
	// The vp rule precedes c-level so the bare "president" term does not
	// claim vice presidents.
	p.Seniority.Rules = []SeniorityRule{
		{Level: "vp", Weight: 0.85, Any: []string{
			"vp", "svp", "evp", "vice president",
		}},
		{Level: "c-level", Weight: 1.0, Any: []string{
			"ceo", "cto", "cfo", "coo", "cmo", "chief", "founder", "co-founder", "president", "owner",
		}},
		{Level: "director", Weight: 0.7, Any: []string{
			"director", "head of",
		}},
		{Level: "manager", Weight: 0.55, Any: []string{
			"manager", "lead", "principal", "supervisor",
		}},
		{Level: "contributor", Weight: 0.35, Any: []string{
			"engineer", "developer", "analyst", "specialist", "coordinator", "associate",
			"representative", "consultant", "administrator",
		}},
	}

	p.Industry.NeutralFit = 0.5
	p.Industry.Rules = []IndustryRule{
		{Segment: "target", Fit: 1.0, Any: []string{
			"software", "technology", "saas", "tech", "information technology", "it services",
		}},
		{Segment: "adjacent", Fit: 0.7, Any: []string{
			"fintech", "financial services", "finance", "telecommunications", "e-commerce",
			"ecommerce", "consulting", "professional services", "media", "marketing",
		}},
	}

	p.Email.PersonalDomains = []string{
		"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com", "icloud.com",
	}
	p.Email.DisposableDomains = []string{
		"mailinator.com", "guerrillamail.com", "10minutemail.com", "tempmail.com",
		"yopmail.com", "trashmail.com", "sharklasers.com",
	}
	p.Email.FakeTerms = []string{
		"test", "example", "sample", "fake", "invalid", "localhost", "noemail", "nomail",
	}

	p.Tiers = []TierBoundary{
		{Category: "Hot", MinScore: 80},
		{Category: "Warm", MinScore: 60},
		{Category: "Cold", MinScore: 40},
		{Category: "Low", MinScore: 0},
	}

	return p
}

// Load reads a policy file and overlays it on the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read policy file: %w", err)
	}

	var loaded Policy
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return p, fmt.Errorf("failed to parse policy file: %w", err)
	}
	p.merge(loaded)

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy file %s: %w", path, err)
	}
	return p, nil
}

// merge replaces each defaulted section that the loaded file set. Sections
// absent from the file keep their defaults; a section that is present
// replaces its default wholesale rather than appending to it.
func (p *Policy) merge(loaded Policy) {
	if len(loaded.RequiredFields) > 0 {
		p.RequiredFields = loaded.RequiredFields
	}
	if len(loaded.Seniority.Rules) > 0 {
		p.Seniority.Rules = loaded.Seniority.Rules
	}
	if loaded.Seniority.UnknownWeight > 0 {
		p.Seniority.UnknownWeight = loaded.Seniority.UnknownWeight
	}
	if len(loaded.Industry.Rules) > 0 {
		p.Industry.Rules = loaded.Industry.Rules
	}
	if loaded.Industry.NeutralFit > 0 {
		p.Industry.NeutralFit = loaded.Industry.NeutralFit
	}
	if len(loaded.Email.PersonalDomains) > 0 {
		p.Email.PersonalDomains = loaded.Email.PersonalDomains
	}
	if len(loaded.Email.DisposableDomains) > 0 {
		p.Email.DisposableDomains = loaded.Email.DisposableDomains
	}
	if len(loaded.Email.FakeTerms) > 0 {
		p.Email.FakeTerms = loaded.Email.FakeTerms
	}
	if len(loaded.Tiers) > 0 {
		p.Tiers = loaded.Tiers
	}
}

// Checksum returns a short stable digest of the whole policy. Score cache
// keys include it so tuning the policy invalidates cached outcomes.
func (p *Policy) Checksum() string {
	b, err := yaml.Marshal(p)
	if err != nil {
		return "unhashable"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Validate checks the cross-field constraints a YAML file can break.
func (p *Policy) Validate() error {
	if len(p.RequiredFields) == 0 {
		return fmt.Errorf("required_fields must not be empty")
	}
	for _, r := range p.Seniority.Rules {
		if r.Weight < 0 || r.Weight > 1 {
			return fmt.Errorf("seniority level %q: weight %v out of range [0,1]", r.Level, r.Weight)
		}
	}
	if p.Seniority.UnknownWeight <= 0 || p.Seniority.UnknownWeight > 1 {
		return fmt.Errorf("seniority unknown_weight %v must be in (0,1]", p.Seniority.UnknownWeight)
	}
	for _, r := range p.Industry.Rules {
		if r.Fit < 0 || r.Fit > 1 {
			return fmt.Errorf("industry segment %q: fit %v out of range [0,1]", r.Segment, r.Fit)
		}
	}
	if p.Industry.NeutralFit < 0 || p.Industry.NeutralFit > 1 {
		return fmt.Errorf("industry neutral_fit %v out of range [0,1]", p.Industry.NeutralFit)
	}

	if len(p.Tiers) == 0 {
		return fmt.Errorf("tiers must not be empty")
	}
	seen := make(map[string]bool, len(p.Tiers))
	for i, tb := range p.Tiers {
		if tb.Category == "" {
			return fmt.Errorf("tier %d: category must not be empty", i)
		}
		if seen[tb.Category] {
			return fmt.Errorf("tier %d: duplicate category %q", i, tb.Category)
		}
		seen[tb.Category] = true
		if i > 0 && tb.MinScore >= p.Tiers[i-1].MinScore {
			return fmt.Errorf("tier %q: min_score %v must be below previous boundary %v",
				tb.Category, tb.MinScore, p.Tiers[i-1].MinScore)
		}
	}
	if last := p.Tiers[len(p.Tiers)-1]; last.MinScore != 0 {
		return fmt.Errorf("last tier %q must have min_score 0 so every score lands somewhere", last.Category)
	}
	return nil
}

// SeniorityWeight returns the matched seniority level and its weight for a
// job title. Rules are applied in order and the first match wins; an empty
// or unmatched title falls through to the unknown weight.
func (p *Policy) SeniorityWeight(title string) (string, float64) {
	folded := textnorm.Fold(textnorm.Collapse(title))
	if folded == "" {
		return "", p.Seniority.UnknownWeight
	}
	tokens := tokenSet(textnorm.Tokens(title))
	for _, r := range p.Seniority.Rules {
		if matchAny(folded, tokens, r.Any) {
			return r.Level, r.Weight
		}
	}
	return "", p.Seniority.UnknownWeight
}

// IndustryFit returns the matched segment and fit weight for an industry
// value, or the neutral fit when the industry is absent or unrecognized.
func (p *Policy) IndustryFit(industry string) (string, float64) {
	folded := textnorm.Fold(textnorm.Collapse(industry))
	if folded == "" {
		return "", p.Industry.NeutralFit
	}
	tokens := tokenSet(textnorm.Tokens(industry))
	for _, r := range p.Industry.Rules {
		if matchAny(folded, tokens, r.Any) {
			return r.Segment, r.Fit
		}
	}
	return "", p.Industry.NeutralFit
}

// IsPersonalDomain reports whether the domain belongs to a consumer mail
// provider.
func (p *Policy) IsPersonalDomain(domain string) bool {
	return domainListed(p.Email.PersonalDomains, domain)
}

// IsDisposableDomain reports whether the domain or one of its parents is a
// known throwaway-mail provider.
func (p *Policy) IsDisposableDomain(domain string) bool {
	return domainListed(p.Email.DisposableDomains, domain)
}

// IsFakeTerm reports whether a single label (an email local part or domain
// label) is a placeholder term such as "test" or "example".
func (p *Policy) IsFakeTerm(label string) bool {
	folded := textnorm.Fold(label)
	for _, term := range p.Email.FakeTerms {
		if folded == textnorm.Fold(term) {
			return true
		}
	}
	return false
}

func domainListed(list []string, domain string) bool {
	d := textnorm.Fold(domain)
	if d == "" {
		return false
	}
	for _, entry := range list {
		e := textnorm.Fold(entry)
		if d == e || strings.HasSuffix(d, "."+e) {
			return true
		}
	}
	return false
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func matchAny(folded string, tokens map[string]bool, terms []string) bool {
	for _, term := range terms {
		t := textnorm.Fold(term)
		if t == "" {
			continue
		}
		if strings.ContainsAny(t, " -") {
			if strings.Contains(folded, t) {
				return true
			}
			continue
		}
		if tokens[t] {
			return true
		}
	}
	return false
}
