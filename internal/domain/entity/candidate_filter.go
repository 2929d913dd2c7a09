package entity

// CandidateFilter is a domain-level filter for querying matchable
// professionals. Used by repository layer to avoid coupling with delivery
// DTOs.
type CandidateFilter struct {
	Qualification Qualification // requested qualification; BOTH needs both titles
	HomeVisit     bool          // only professionals offering home visits
}
