package crm

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// Priority levels assigned to mapped contacts.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

const leadSourceName = "Lead Quality Engine"

// Contact is one CRM upsert payload: the standard contact properties
// plus the scoring annotations.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
	JobTitle  string
	Phone     string
	Company   string
	Website   string
	City      string
	State     string
	Score     int
	Category  string
	Priority  string
}

// Mapper turns scored leads into CRM contacts, recommended workflows and
// sales tasks.
type Mapper struct {
	now func() time.Time
}

func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Contact maps one scored lead. The second return is false when the lead
// has neither an email nor a phone worth importing, or never got scored.
func (m *Mapper) Contact(item core.ScoredLead) (*Contact, bool) {
	if item.Result == nil {
		return nil, false
	}
	lead := item.Lead
	email := lead.Resolve(core.FieldEmail)
	phone := lead.Resolve(core.FieldPhone)
	if !email.Present && !phone.Present {
		return nil, false
	}

	first, last := splitName(lead.Resolve(core.FieldContactName).Value)
	return &Contact{
		Email:     email.Value,
		FirstName: first,
		LastName:  last,
		JobTitle:  lead.Resolve(core.FieldTitle).Value,
		Phone:     phone.Value,
		Company:   lead.Resolve(core.FieldCompany).Value,
		Website:   lead.Resolve(core.FieldWebsite).Value,
		City:      lead.Resolve(core.FieldCity).Value,
		State:     lead.Resolve(core.FieldState).Value,
		Score:     int(math.Round(item.Result.Score)),
		Category:  string(item.Result.Category),
		Priority:  priorityFor(item.Result.Category),
	}, true
}

// Properties renders the CRM property map for one contact. Empty fields
// are omitted; the scoring annotations ride along both as custom
// properties and as a notes block, so accounts without custom properties
// still see the score.
func (m *Mapper) Properties(c *Contact) map[string]string {
	props := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	set("email", c.Email)
	set("firstname", c.FirstName)
	set("lastname", c.LastName)
	set("jobtitle", c.JobTitle)
	set("phone", c.Phone)
	set("company", c.Company)
	set("website", c.Website)
	set("city", c.City)
	set("state", c.State)

	props["ai_lead_score"] = strconv.Itoa(c.Score)
	props["lead_quality_category"] = c.Category
	props["lead_priority"] = c.Priority
	props["lead_source"] = leadSourceName
	props["hs_lead_status"] = "NEW"
	props["lifecyclestage"] = "lead"

	notes := []string{
		fmt.Sprintf("AI Lead Score: %d/100", c.Score),
		"Category: " + c.Category,
		"Priority: " + c.Priority,
		"Enhanced: " + m.now().Format("2006-01-02"),
		"Source: " + leadSourceName,
	}
	props["hs_content_membership_notes"] = strings.Join(notes, "\n")

	return props
}

// Workflow is a recommended follow-up automation for a scored batch.
type Workflow struct {
	Name     string
	Trigger  string
	Actions  []string
	Affected int
}

// Workflows suggests CRM automations based on the batch's tier counts.
func (m *Mapper) Workflows(result *core.BatchResult) []Workflow {
	hot := result.Stats.ByCategory[core.CategoryHot]
	warm := result.Stats.ByCategory[core.CategoryWarm]

	var workflows []Workflow
	if hot > 0 {
		workflows = append(workflows, Workflow{
			Name:    "Hot Lead Immediate Follow-up",
			Trigger: "AI Lead Score >= 80",
			Actions: []string{
				"Create high-priority task for sales rep",
				"Send Slack notification to sales team",
				"Set lifecycle stage to \"Sales Qualified Lead\"",
			},
			Affected: hot,
		})
	}
	if warm > 0 {
		workflows = append(workflows, Workflow{
			Name:    "Warm Lead Nurture Sequence",
			Trigger: "AI Lead Score 60-79",
			Actions: []string{
				"Enroll in email nurture campaign",
				"Create follow-up task in 3 days",
				"Add to \"Warm Prospects\" list",
			},
			Affected: warm,
		})
	}
	return workflows
}

// Task is one prioritized sales follow-up generated from a scored batch.
type Task struct {
	Title       string
	Description string
	Priority    string
	DueInDays   int
	Type        string
}

// SalesTasks builds a prioritized follow-up list from the batch's
// strongest leads. Cold and low leads never make the list.
func (m *Mapper) SalesTasks(result *core.BatchResult, limit int) []Task {
	if limit <= 0 {
		limit = 10
	}
	scored := make([]core.ScoredLead, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Result != nil {
			scored = append(scored, item)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Result.Score > scored[j].Result.Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	var tasks []Task
	for _, item := range scored {
		company := item.Lead.Resolve(core.FieldCompany).Value
		if company == "" {
			company = "Unknown Company"
		}
		contact := item.Lead.Resolve(core.FieldContactName).Value
		if contact == "" {
			contact = "Unknown Contact"
		}
		switch item.Result.Category {
		case core.CategoryHot:
			tasks = append(tasks, Task{
				Title:       "URGENT: Call " + company,
				Description: fmt.Sprintf("Hot lead (%.0f%% score). Contact: %s", item.Result.Score, contact),
				Priority:    PriorityHigh,
				DueInDays:   1,
				Type:        "call",
			})
		case core.CategoryWarm:
			tasks = append(tasks, Task{
				Title:       "Research and reach out to " + company,
				Description: fmt.Sprintf("Warm lead (%.0f%% score). Research before calling.", item.Result.Score),
				Priority:    PriorityMedium,
				DueInDays:   3,
				Type:        "research",
			})
		}
	}
	return tasks
}

func priorityFor(category core.Category) string {
	switch category {
	case core.CategoryHot:
		return PriorityHigh
	case core.CategoryWarm:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
