package domain

import (
	"sort"
	"strings"
	"time"
)

// RequirementStatus is the evaluated state of one requirement row or group.
type RequirementStatus string

const (
	RequirementSatisfied      RequirementStatus = "satisfied"
	RequirementPending        RequirementStatus = "pending"
	RequirementActionRequired RequirementStatus = "action_required"
	RequirementMissing        RequirementStatus = "missing"
)

// ComplianceStatus is the worker-level verdict derived from all applicable requirements.
type ComplianceStatus string

const (
	ComplianceComplete       ComplianceStatus = "complete"
	ComplianceInProgress     ComplianceStatus = "in_progress"
	ComplianceActionRequired ComplianceStatus = "action_required"
	ComplianceIncomplete     ComplianceStatus = "incomplete"
)

// ComplianceInput carries everything the evaluation needs; the engine touches no storage.
type ComplianceInput struct {
	Subcategories []ServiceSubcategory
	Requirements  []DocumentRequirement
	Aliases       map[string]string
	Documents     []VerificationDocument
	Now           time.Time
}

// RequirementResult is the evaluated state of one applicable requirement.
// For at-least-one-of groups DocumentTypes lists every member; for single
// requirements it has exactly one entry.
type RequirementResult struct {
	GroupKey      string
	DocumentTypes []string
	Status        RequirementStatus
	Document      *VerificationDocument
	Detail        string
}

// ComplianceReport is the full engine output for one worker.
type ComplianceReport struct {
	Status       ComplianceStatus
	Requirements []RequirementResult

	SatisfiedCount      int
	PendingCount        int
	ActionRequiredCount int
	MissingCount        int
}

// MissingDocumentTypes lists the document types still blocking completion,
// in result order. For a group only its members are listed once.
func (r ComplianceReport) MissingDocumentTypes() []string {
	var out []string
	for _, req := range r.Requirements {
		if req.Status == RequirementMissing || req.Status == RequirementActionRequired {
			out = append(out, req.DocumentTypes...)
		}
	}
	return out
}

const maxAliasHops = 5

// CanonicalDocumentType resolves a possibly-legacy document type code through
// the alias table. Codes are case-insensitive; unknown codes pass through
// unchanged so uploads under not-yet-registered types are still visible.
func CanonicalDocumentType(code string, aliases map[string]string) string {
	current := strings.ToLower(strings.TrimSpace(code))
	for i := 0; i < maxAliasHops; i++ {
		next, ok := aliases[current]
		if !ok || next == "" || next == current {
			return current
		}
		current = strings.ToLower(strings.TrimSpace(next))
	}
	return current
}

// EvaluateCompliance derives a worker's document-compliance state from the
// configured requirement matrix and the worker's uploads.
//
// The applicable set is the union of base requirements, category requirements
// for the categories of the worker's selected subcategories, and subcategory
// requirements for the exact selections. Requirements sharing a group key are
// collapsed into one at-least-one-of entry. Only the newest document per
// canonical type is considered; approved documents past expiry do not satisfy.
func EvaluateCompliance(in ComplianceInput) ComplianceReport {
	selectedSubcats := make(map[string]bool, len(in.Subcategories))
	selectedCats := make(map[string]bool, len(in.Subcategories))
	for _, sc := range in.Subcategories {
		selectedSubcats[sc.SubcategoryID.String()] = true
		selectedCats[sc.CategoryID.String()] = true
	}

	newest := newestDocumentPerType(in.Documents, in.Aliases)

	// Collapse applicable rows: one entry per group key, one per bare doc type.
	type entry struct {
		groupKey string
		types    []string
		seen     map[string]bool
	}
	entries := make(map[string]*entry)
	order := make([]string, 0)
	for _, req := range in.Requirements {
		if !requirementApplies(req, selectedCats, selectedSubcats) {
			continue
		}
		docType := CanonicalDocumentType(req.DocumentTypeCode, in.Aliases)
		if docType == "" {
			continue
		}
		key := "type:" + docType
		groupKey := strings.TrimSpace(req.GroupKey)
		if groupKey != "" {
			key = "group:" + groupKey
		}
		e, ok := entries[key]
		if !ok {
			e = &entry{groupKey: groupKey, seen: make(map[string]bool)}
			entries[key] = e
			order = append(order, key)
		}
		if !e.seen[docType] {
			e.seen[docType] = true
			e.types = append(e.types, docType)
		}
	}
	sort.Strings(order)

	report := ComplianceReport{Requirements: make([]RequirementResult, 0, len(order))}
	for _, key := range order {
		e := entries[key]
		sort.Strings(e.types)

		best := RequirementResult{
			GroupKey:      e.groupKey,
			DocumentTypes: e.types,
			Status:        RequirementMissing,
		}
		for _, docType := range e.types {
			status, doc, detail := documentStatus(newest[docType], in.Now)
			if statusRank(status) > statusRank(best.Status) {
				best.Status = status
				best.Document = doc
				best.Detail = detail
			}
		}

		switch best.Status {
		case RequirementSatisfied:
			report.SatisfiedCount++
		case RequirementPending:
			report.PendingCount++
		case RequirementActionRequired:
			report.ActionRequiredCount++
		case RequirementMissing:
			report.MissingCount++
		}
		report.Requirements = append(report.Requirements, best)
	}

	switch {
	case report.ActionRequiredCount == 0 && report.PendingCount == 0 && report.MissingCount == 0:
		report.Status = ComplianceComplete
	case report.ActionRequiredCount > 0:
		report.Status = ComplianceActionRequired
	case report.MissingCount > 0:
		report.Status = ComplianceIncomplete
	default:
		report.Status = ComplianceInProgress
	}
	return report
}

func requirementApplies(req DocumentRequirement, cats, subcats map[string]bool) bool {
	switch req.Scope {
	case ScopeBase:
		return true
	case ScopeCategory:
		return req.CategoryID != nil && cats[req.CategoryID.String()]
	case ScopeSubcategory:
		return req.SubcategoryID != nil && subcats[req.SubcategoryID.String()]
	default:
		return false
	}
}

// newestDocumentPerType keeps only the latest upload per canonical type.
// Earlier uploads are superseded no matter their review state.
func newestDocumentPerType(docs []VerificationDocument, aliases map[string]string) map[string]*VerificationDocument {
	newest := make(map[string]*VerificationDocument)
	for i := range docs {
		doc := docs[i]
		docType := CanonicalDocumentType(doc.DocumentType, aliases)
		current, ok := newest[docType]
		if !ok || doc.UploadedAt.After(current.UploadedAt) {
			copied := doc
			newest[docType] = &copied
		}
	}
	return newest
}

func documentStatus(doc *VerificationDocument, now time.Time) (RequirementStatus, *VerificationDocument, string) {
	if doc == nil {
		return RequirementMissing, nil, ""
	}
	switch doc.Status {
	case DocumentStatusApproved:
		if doc.Expired(now) {
			return RequirementActionRequired, doc, "document expired"
		}
		return RequirementSatisfied, doc, ""
	case DocumentStatusRejected:
		detail := doc.RejectionReason
		if detail == "" {
			detail = "document rejected"
		}
		return RequirementActionRequired, doc, detail
	default:
		return RequirementPending, doc, ""
	}
}

func statusRank(s RequirementStatus) int {
	switch s {
	case RequirementSatisfied:
		return 3
	case RequirementPending:
		return 2
	case RequirementActionRequired:
		return 1
	default:
		return 0
	}
}
