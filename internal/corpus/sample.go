package corpus

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// SampleHeader is the column order for generated demo exports, matching
// the shape of a typical lead-source CSV.
func SampleHeader() []string {
	return []string{
		"Company", "Industry", "Street", "City", "State", "BBB_Rating",
		"Company_Phone", "Website", "Contact_Name", "Contact_Title",
		"Contact_Email", "Contact_Phone",
	}
}

var (
	sampleCompanies = []string{
		"Vertex Analytics", "BlueHarbor Systems", "Quantell", "Northwind Robotics",
		"Crestline Manufacturing", "Solara Health", "Pinebrook Logistics", "Datastride",
		"Ironvale Consulting", "Lumen Retail Group", "Halcyon Media", "Brightpath Legal",
	}
	sampleIndustries = []string{
		"Software", "Technology", "SaaS", "Manufacturing", "Healthcare",
		"Logistics", "Consulting", "Retail", "Media", "Legal Services",
	}
	sampleCities = []string{
		"Austin", "Denver", "Columbus", "Raleigh", "Portland", "Tampa", "Boise", "Madison",
	}
	sampleStates = []string{"TX", "CO", "OH", "NC", "OR", "FL", "ID", "WI"}
	sampleTitles = []string{
		"CEO", "Founder", "VP of Sales", "VP of Engineering", "Director of Marketing",
		"Director of Operations", "IT Manager", "Office Manager", "Software Engineer",
		"Account Executive", "Administrative Assistant",
	}
	sampleFirstNames = []string{
		"James", "Maria", "Wei", "Priya", "Daniel", "Aisha", "Carlos", "Emma",
		"Tomas", "Nina", "Oliver", "Grace",
	}
	sampleLastNames = []string{
		"Walker", "Nguyen", "Okafor", "Schmidt", "Rivera", "Khan", "Larsen",
		"Barnes", "Ito", "Dubois", "Novak", "Reyes",
	}
	sampleRatings = []string{"A+", "A", "A-", "B+", "B", "N/A"}
)

// SampleLeads generates a demo batch of raw leads resembling a real
// source export: most records complete, a realistic share missing email,
// phone or contact data. The same seed always yields the same batch.
func SampleLeads(n int, seed int64) []core.RawLead {
	rng := rand.New(rand.NewSource(seed))
	leads := make([]core.RawLead, 0, n)

	for i := 0; i < n; i++ {
		company := pick(rng, sampleCompanies)
		domain := companyDomain(company)

		lead := core.RawLead{
			"Company":       company,
			"Industry":      pick(rng, sampleIndustries),
			"Street":        fmt.Sprintf("%d Commerce St", 100+rng.Intn(9000)),
			"City":          pick(rng, sampleCities),
			"State":         pick(rng, sampleStates),
			"BBB_Rating":    pick(rng, sampleRatings),
			"Company_Phone": samplePhone(rng),
			"Website":       "www." + domain,
			"Contact_Name":  "N/A",
			"Contact_Title": "N/A",
			"Contact_Email": "N/A",
			"Contact_Phone": "N/A",
		}

		// 80% of records carry a named contact, and only those can carry
		// a direct email or phone.
		if rng.Float64() < 0.8 {
			first := pick(rng, sampleFirstNames)
			last := pick(rng, sampleLastNames)
			lead["Contact_Name"] = first + " " + last
			lead["Contact_Title"] = pick(rng, sampleTitles)
			if rng.Float64() < 0.7 {
				lead["Contact_Email"] = strings.ToLower(first) + "." + strings.ToLower(last) + "@" + domain
			}
			if rng.Float64() < 0.6 {
				lead["Contact_Phone"] = samplePhone(rng)
			}
		}

		leads = append(leads, lead)
	}
	return leads
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func samplePhone(rng *rand.Rand) string {
	return fmt.Sprintf("(%d) %03d-%04d", 200+rng.Intn(700), rng.Intn(1000), rng.Intn(10000))
}

func companyDomain(company string) string {
	folded := strings.ToLower(company)
	folded = strings.ReplaceAll(folded, " ", "")
	return folded + ".com"
}
