package domain

import "sort"

// Incident is one raw street-level crime record from the crime provider.
type Incident struct {
	Category string `json:"category"`
}

// CrimeEntry is an aggregated crime category with its incident count.
type CrimeEntry struct {
	Category  string `json:"crime"`
	Incidents int    `json:"incidents"`
}

// SummarizeCrimes groups raw incidents by category and counts them.
// Entries are sorted by incident count descending, with equal counts
// ordered alphabetically by category. Incidents with an empty category are
// dropped. The result is never nil.
func SummarizeCrimes(incidents []Incident) []CrimeEntry {
	counts := make(map[string]int)
	for _, incident := range incidents {
		if incident.Category == "" {
			continue
		}
		counts[incident.Category]++
	}

	entries := make([]CrimeEntry, 0, len(counts))
	for category, count := range counts {
		entries = append(entries, CrimeEntry{Category: category, Incidents: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Incidents != entries[j].Incidents {
			return entries[i].Incidents > entries[j].Incidents
		}
		return entries[i].Category < entries[j].Category
	})

	return entries
}
