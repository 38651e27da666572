package reconcile

import "cigfip/internal/domain"

// Snapshot is a previously stored record set for the same person.
// Fingerprint may be empty, in which case it is computed.
type Snapshot struct {
	Header      domain.Header
	Records     []domain.Record
	Fingerprint string
}

// Result is the reconciliation outcome for one new record set.
type Result struct {
	Fingerprint      string     `json:"fingerprint"`
	PriorFingerprint string     `json:"fingerprint_anterior,omitempty"`
	Duplicate        bool       `json:"duplicado"`
	Diff             DiffResult `json:"diff"`
}

// Reconcile fingerprints set and diffs it against prior. A nil prior makes
// every keyed record a complement.
func Reconcile(set *domain.RecordSet, prior *Snapshot) Result {
	res := Result{Fingerprint: Fingerprint(set.Header, set.Records)}

	var priorRecords []domain.Record
	if prior != nil {
		res.PriorFingerprint = prior.Fingerprint
		if res.PriorFingerprint == "" {
			res.PriorFingerprint = Fingerprint(prior.Header, prior.Records)
		}
		res.Duplicate = res.PriorFingerprint == res.Fingerprint
		priorRecords = prior.Records
	}

	res.Diff = Diff(priorRecords, set.Records)
	return res
}
