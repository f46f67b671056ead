package catalog

import (
	"fmt"
)

type IssueKind string

const (
	IssueUnknownCategory    IssueKind = "unknown_category"
	IssueUnknownSubcategory IssueKind = "unknown_subcategory"
	IssueUnknownProvider    IssueKind = "unknown_provider"
	IssueStaleProvider      IssueKind = "stale_provider"
)

// Issue describes a dangling reference from a service record.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	ServiceID string    `json:"service_id"`
	Ref       string    `json:"ref"`
}

func (i Issue) Error() string {
	switch i.Kind {
	case IssueUnknownCategory:
		return fmt.Sprintf("service %s: category %q does not exist", i.ServiceID, i.Ref)
	case IssueUnknownSubcategory:
		return fmt.Sprintf("service %s: subcategory %q is not part of its category", i.ServiceID, i.Ref)
	case IssueUnknownProvider:
		return fmt.Sprintf("service %s: provider %q does not exist", i.ServiceID, i.Ref)
	case IssueStaleProvider:
		return fmt.Sprintf("service %s: embedded provider %q differs from the provider table", i.ServiceID, i.Ref)
	}
	return fmt.Sprintf("service %s: %s %q", i.ServiceID, i.Kind, i.Ref)
}

// Validate checks every service's category, subcategory and provider
// references. Nothing in the catalog enforces these on construction.
func (c *Catalog) Validate() []Issue {
	var issues []Issue
	for _, s := range c.services {
		ci, ok := c.categoryIdx[s.Category]
		if !ok {
			issues = append(issues, Issue{Kind: IssueUnknownCategory, ServiceID: s.ID, Ref: s.Category})
		} else if s.Subcategory != "" && !c.categories[ci].HasSubcategory(s.Subcategory) {
			issues = append(issues, Issue{Kind: IssueUnknownSubcategory, ServiceID: s.ID, Ref: s.Subcategory})
		}

		pi, ok := c.providerIdx[s.Provider.ID]
		if !ok {
			issues = append(issues, Issue{Kind: IssueUnknownProvider, ServiceID: s.ID, Ref: s.Provider.ID})
			continue
		}
		p := c.providers[pi]
		if p.Name != s.Provider.Name || p.Location != s.Provider.Location {
			issues = append(issues, Issue{Kind: IssueStaleProvider, ServiceID: s.ID, Ref: s.Provider.ID})
		}
	}
	return issues
}
