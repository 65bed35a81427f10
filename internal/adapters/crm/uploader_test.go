package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

func TestUploaderPushesContacts(t *testing.T) {
	var mu sync.Mutex
	var properties []map[string]string
	var auths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)

		var payload struct {
			Properties map[string]string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		mu.Lock()
		properties = append(properties, payload.Properties)
		auths = append(auths, r.Header.Get("Authorization"))
		n := len(properties)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"%d"}`, n)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "secret-token", 2, 1000, zap.NewNop())

	result := &core.BatchResult{Items: []core.ScoredLead{
		scoredItem(core.RawLead{"email": "a@x.com", "company": "A"}, 85, core.CategoryHot),
		scoredItem(core.RawLead{"phone": "555-000-1111", "company": "B"}, 65, core.CategoryWarm),
		scoredItem(core.RawLead{"company": "C"}, 30, core.CategoryLow),
		{Lead: core.RawLead{"email": "broken@x.com"}, Err: errors.New("schema changed")},
	}}

	report, err := u.Upload(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Uploaded, "only the email-bearing scored lead uploads")
	assert.Equal(t, 1, report.Failed, "phone-only contact fails at the email gate")
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "no email address")
	assert.Equal(t, []string{"1"}, report.CreatedIDs)

	require.Len(t, properties, 1)
	assert.Equal(t, "a@x.com", properties[0]["email"])
	assert.Equal(t, "85", properties[0]["ai_lead_score"])
	assert.Equal(t, "Bearer secret-token", auths[0])
}

func TestUploaderReportsConflicts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "token", 3, 1000, zap.NewNop())
	result := &core.BatchResult{Items: []core.ScoredLead{
		scoredItem(core.RawLead{"email": "dup@x.com"}, 80, core.CategoryHot),
	}}

	report, err := u.Upload(context.Background(), result)
	require.NoError(t, err, "per-contact failures never abort the push")
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0], "already exists")
}

func TestUploaderSuppressesListedDomains(t *testing.T) {
	var uploaded []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Properties map[string]string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		uploaded = append(uploaded, payload.Properties["email"])
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1"}`)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "token", 3, 1000, zap.NewNop()).
		WithSuppressedDomains([]string{"customer.com"})
	result := &core.BatchResult{Items: []core.ScoredLead{
		scoredItem(core.RawLead{"email": "new@prospect.io"}, 80, core.CategoryHot),
		scoredItem(core.RawLead{"email": "known@customer.com"}, 90, core.CategoryHot),
		scoredItem(core.RawLead{"email": "sub@eu.customer.com"}, 75, core.CategoryWarm),
	}}

	report, err := u.Upload(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 2, report.Skipped, "suppressed domains and their subdomains are skipped")
	assert.Equal(t, []string{"new@prospect.io"}, uploaded)
}

func TestUploaderStopsOnCancel(t *testing.T) {
	u := NewUploader("http://unreachable.invalid", "token", 1, 0.001, zap.NewNop())
	result := &core.BatchResult{Items: []core.ScoredLead{
		scoredItem(core.RawLead{"email": "a@x.com"}, 80, core.CategoryHot),
		scoredItem(core.RawLead{"email": "b@x.com"}, 80, core.CategoryHot),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.Upload(ctx, result)
	require.ErrorIs(t, err, context.Canceled)
}
