package domain

type IntentKind string

const (
	// IntentRecordTransfer and IntentQueryBranchTotal are the two actionable
	// instructions the oracle can issue.
	IntentRecordTransfer   IntentKind = "record_transfer"
	IntentQueryBranchTotal IntentKind = "query_branch_total"

	// IntentUnclear means the oracle responded but issued no instruction.
	IntentUnclear IntentKind = "unclear"

	// IntentOracleUnavailable means the oracle call failed transiently
	// (network, timeout, rate limit, open breaker).
	IntentOracleUnavailable IntentKind = "oracle_unavailable"

	// IntentMalformedResponse means the oracle issued an instruction whose
	// arguments could not be parsed.
	IntentMalformedResponse IntentKind = "malformed_response"
)

// IntentResult is the tagged outcome of one oracle call. Exactly one payload
// field is non-nil, and only for the actionable kinds.
type IntentResult struct {
	Kind   IntentKind
	Record *RecordTransferIntent
	Query  *QueryBranchTotalIntent
}

// RecordTransferIntent carries the raw entities extracted by the oracle.
// Branch names are NOT validated here: the normalizer downstream is the
// single authority, even when the oracle hallucinates a name outside the
// directory.
type RecordTransferIntent struct {
	// Amount is nil when the oracle omitted it or supplied a non-numeric
	// value; the use case turns that into a missing-fields reply.
	Amount            *float64
	Currency          string
	SourceBranch      string
	DestinationBranch string
}

type QueryBranchTotalIntent struct {
	Branch    string
	DateRange string
}
