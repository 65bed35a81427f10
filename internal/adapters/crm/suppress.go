package crm

import (
	"strings"

	"go.uber.org/zap"
)

// SuppressionList holds email domains that must never be pushed to the
// CRM: existing customers, competitors, internal test accounts. Contacts
// on a suppressed domain are counted as skipped, not failed.
type SuppressionList struct {
	domains []string
	logger  *zap.Logger
}

// NewSuppressionList creates a suppression list from configured domains
func NewSuppressionList(domains []string, logger *zap.Logger) *SuppressionList {
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		if d != "" {
			normalized = append(normalized, d)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Loaded CRM suppression list", zap.Strings("domains", normalized))
	}

	return &SuppressionList{
		domains: normalized,
		logger:  logger,
	}
}

// IsSuppressed reports whether the contact's email domain is on the list.
// Subdomains of a listed domain are suppressed too.
func (s *SuppressionList) IsSuppressed(email string) bool {
	if len(s.domains) == 0 {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])

	for _, suppressed := range s.domains {
		if domain == suppressed || strings.HasSuffix(domain, "."+suppressed) {
			if s.logger != nil {
				s.logger.Debug("Contact domain is suppressed",
					zap.String("domain", domain),
					zap.String("email", email))
			}
			return true
		}
	}

	return false
}
