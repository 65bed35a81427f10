package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// UploadResult summarizes one CRM push.
type UploadResult struct {
	Total      int
	Uploaded   int
	Skipped    int
	Failed     int
	Errors     []string
	CreatedIDs []string
}

// Uploader pushes scored leads into the CRM contacts API. It is the only
// rate-limited adapter in the pipeline: CRM write quotas are far tighter
// than anything else we talk to.
type Uploader struct {
	client    *http.Client
	baseURL   string
	token     string
	mapper    *Mapper
	suppress  *SuppressionList
	limiter   *rate.Limiter
	batchSize int
	logger    *zap.Logger
}

// NewUploader creates a CRM uploader. batchRate is batches per second;
// the default of one batch of 3 every two seconds stays well inside
// HubSpot-style burst limits.
func NewUploader(baseURL string, token string, batchSize int, batchRate float64, logger *zap.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = 3
	}
	if batchRate <= 0 {
		batchRate = 0.5
	}
	return &Uploader{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		mapper:    NewMapper(),
		suppress:  NewSuppressionList(nil, logger),
		limiter:   rate.NewLimiter(rate.Limit(batchRate), 1),
		batchSize: batchSize,
		logger:    logger,
	}
}

// WithSuppressedDomains installs a suppression list and returns the
// uploader for chaining.
func (u *Uploader) WithSuppressedDomains(domains []string) *Uploader {
	u.suppress = NewSuppressionList(domains, u.logger)
	return u
}

// Write delivers the batch to the CRM. Implements the result sink; the
// detailed report is logged rather than returned.
func (u *Uploader) Write(ctx context.Context, result *core.BatchResult) error {
	report, err := u.Upload(ctx, result)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		u.logger.Warn("CRM upload finished with failures",
			zap.Int("failed", report.Failed),
			zap.Strings("errors", report.Errors))
	}
	return nil
}

// Upload maps and pushes the batch's contacts in small rate-limited
// batches. Per-contact failures are collected, not fatal; only a
// canceled context aborts the push.
func (u *Uploader) Upload(ctx context.Context, result *core.BatchResult) (*UploadResult, error) {
	contacts := make([]*Contact, 0, len(result.Items))
	skipped := 0
	for _, item := range result.Items {
		contact, ok := u.mapper.Contact(item)
		if !ok {
			skipped++
			continue
		}
		if u.suppress.IsSuppressed(contact.Email) {
			skipped++
			continue
		}
		contacts = append(contacts, contact)
	}

	report := &UploadResult{Total: len(result.Items), Skipped: skipped}
	for start := 0; start < len(contacts); start += u.batchSize {
		if err := u.limiter.Wait(ctx); err != nil {
			return report, err
		}
		end := min(start+u.batchSize, len(contacts))
		for _, contact := range contacts[start:end] {
			if contact.Email == "" {
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("contact %s: no email address", contact.Company))
				continue
			}
			id, err := u.createContact(ctx, contact)
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("contact %s: %v", contact.Email, err))
				continue
			}
			report.Uploaded++
			report.CreatedIDs = append(report.CreatedIDs, id)
		}
	}

	u.logger.Info("Uploaded contacts to CRM",
		zap.Int("uploaded", report.Uploaded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped))

	return report, nil
}

type contactPayload struct {
	Properties map[string]string `json:"properties"`
}

type contactResponse struct {
	ID string `json:"id"`
}

func (u *Uploader) createContact(ctx context.Context, contact *Contact) (string, error) {
	body, err := json.Marshal(contactPayload{Properties: u.mapper.Properties(contact)})
	if err != nil {
		return "", fmt.Errorf("failed to encode contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/crm/v3/objects/contacts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.token)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return "", errors.New("already exists in CRM")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("CRM returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out contactResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.ID, nil
}
