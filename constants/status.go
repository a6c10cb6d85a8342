package constants

// OutcomeStatus is the stored status of a processed document.
type OutcomeStatus string

// Stable values (store these exact strings in DB).
const (
	StatusExtracted     OutcomeStatus = "EXTRACTED"      // canonical record produced
	StatusUnknownRegion OutcomeStatus = "UNKNOWN_REGION" // classification exhausted
	StatusFailed        OutcomeStatus = "FAILED"         // rasterization, template or other fatal error
)

// UnknownRegionMessage is the message returned for documents no classifier matched.
const UnknownRegionMessage = "Unknown region"
