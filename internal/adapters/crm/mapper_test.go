package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

func fixedMapper() *Mapper {
	m := NewMapper()
	m.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }
	return m
}

func scoredItem(lead core.RawLead, score float64, category core.Category) core.ScoredLead {
	return core.ScoredLead{
		Lead: lead,
		Result: &core.ScoreResult{
			LeadID:   lead.ID(),
			Score:    score,
			Category: category,
		},
	}
}

func TestMapperContact(t *testing.T) {
	m := fixedMapper()

	item := scoredItem(core.RawLead{
		"Contact_Name":  "Jane van Dyke",
		"Contact_Email": "jane@acme.com",
		"Contact_Phone": "N/A",
		"Contact_Title": "CTO",
		"Company":       "Acme",
		"Website":       "https://acme.com",
		"City":          "Austin",
		"State":         "TX",
	}, 86.6, core.CategoryHot)

	contact, ok := m.Contact(item)
	require.True(t, ok)
	assert.Equal(t, "jane@acme.com", contact.Email)
	assert.Equal(t, "Jane", contact.FirstName)
	assert.Equal(t, "van Dyke", contact.LastName)
	assert.Equal(t, "CTO", contact.JobTitle)
	assert.Empty(t, contact.Phone, "placeholder phone is scrubbed")
	assert.Equal(t, "Acme", contact.Company)
	assert.Equal(t, "https://acme.com", contact.Website)
	assert.Equal(t, "Austin", contact.City)
	assert.Equal(t, "TX", contact.State)
	assert.Equal(t, 87, contact.Score)
	assert.Equal(t, "Hot", contact.Category)
	assert.Equal(t, PriorityHigh, contact.Priority)
}

func TestMapperSkipsUnreachableLeads(t *testing.T) {
	m := fixedMapper()

	_, ok := m.Contact(scoredItem(core.RawLead{"company": "Acme"}, 50, core.CategoryCold))
	assert.False(t, ok, "no email and no phone means nothing to import")

	_, ok = m.Contact(core.ScoredLead{Lead: core.RawLead{"email": "a@b.com"}})
	assert.False(t, ok, "unscored leads are not importable")

	_, ok = m.Contact(scoredItem(core.RawLead{"phone": "555-123-4567"}, 50, core.CategoryCold))
	assert.True(t, ok, "phone alone is enough contact info")
}

func TestMapperProperties(t *testing.T) {
	m := fixedMapper()

	props := m.Properties(&Contact{
		Email:    "j@acme.com",
		Score:    92,
		Category: "Hot",
		Priority: PriorityHigh,
	})

	assert.Equal(t, "j@acme.com", props["email"])
	assert.Equal(t, "92", props["ai_lead_score"])
	assert.Equal(t, "Hot", props["lead_quality_category"])
	assert.Equal(t, "High", props["lead_priority"])
	assert.Equal(t, "NEW", props["hs_lead_status"])
	assert.Equal(t, "lead", props["lifecyclestage"])

	_, hasPhone := props["phone"]
	assert.False(t, hasPhone, "empty fields are omitted")

	notes := props["hs_content_membership_notes"]
	assert.Contains(t, notes, "AI Lead Score: 92/100")
	assert.Contains(t, notes, "Priority: High")
	assert.Contains(t, notes, "Enhanced: 2025-03-14")
}

func TestMapperWorkflows(t *testing.T) {
	m := fixedMapper()

	result := &core.BatchResult{Stats: core.BatchStats{
		ByCategory: map[core.Category]int{core.CategoryHot: 2, core.CategoryWarm: 3},
	}}
	workflows := m.Workflows(result)
	require.Len(t, workflows, 2)
	assert.Equal(t, "Hot Lead Immediate Follow-up", workflows[0].Name)
	assert.Equal(t, 2, workflows[0].Affected)
	assert.Equal(t, "Warm Lead Nurture Sequence", workflows[1].Name)
	assert.Equal(t, 3, workflows[1].Affected)

	cold := &core.BatchResult{Stats: core.BatchStats{
		ByCategory: map[core.Category]int{core.CategoryCold: 5},
	}}
	assert.Empty(t, m.Workflows(cold))
}

func TestMapperSalesTasks(t *testing.T) {
	m := fixedMapper()

	result := &core.BatchResult{Items: []core.ScoredLead{
		scoredItem(core.RawLead{"company": "Globex", "contact_name": "Sam Low", "email": "s@globex.com"}, 68, core.CategoryWarm),
		scoredItem(core.RawLead{"company": "Acme", "contact_name": "Jane Roe", "email": "j@acme.com"}, 91, core.CategoryHot),
		scoredItem(core.RawLead{"company": "Initech", "email": "i@initech.com"}, 45, core.CategoryCold),
		scoredItem(core.RawLead{"company": "Umbrella", "email": "u@umbrella.com"}, 12, core.CategoryLow),
		{Lead: core.RawLead{"company": "Broken"}},
	}}

	tasks := m.SalesTasks(result, 10)
	require.Len(t, tasks, 2, "cold and low leads never make the list")

	assert.Equal(t, "URGENT: Call Acme", tasks[0].Title)
	assert.Contains(t, tasks[0].Description, "91% score")
	assert.Contains(t, tasks[0].Description, "Jane Roe")
	assert.Equal(t, PriorityHigh, tasks[0].Priority)
	assert.Equal(t, 1, tasks[0].DueInDays)
	assert.Equal(t, "call", tasks[0].Type)

	assert.Equal(t, "Research and reach out to Globex", tasks[1].Title)
	assert.Equal(t, PriorityMedium, tasks[1].Priority)
	assert.Equal(t, 3, tasks[1].DueInDays)

	top := m.SalesTasks(result, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "URGENT: Call Acme", top[0].Title)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Roe", "Jane", "Roe"},
		{"Jane van Dyke", "Jane", "van Dyke"},
		{"Prince", "Prince", ""},
		{"", "", ""},
		{"  Jo  Ann  ", "Jo", "Ann"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		assert.Equal(t, tt.first, first, "first of %q", tt.in)
		assert.Equal(t, tt.last, last, "last of %q", tt.in)
	}
}
