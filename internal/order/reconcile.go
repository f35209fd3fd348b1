package order

import (
	"time"

	"github.com/fpang/photoprint/internal/imaging"
	"github.com/fpang/photoprint/internal/printapi"
)

// Status summarizes an order run.
type Status int

const (
	// StatusSuccess means every image made it into the order.
	StatusSuccess Status = iota
	// StatusPartial means the order exists but some images were left
	// behind, locally or by the service.
	StatusPartial
	// StatusFailure means nothing will be printed.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusPartial:
		return "Partial success"
	case StatusFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// FailureSource says which side kept an image out of the order.
type FailureSource int

const (
	// SourceLocal marks images rejected before any network activity, or
	// stranded because the order was never submitted.
	SourceLocal FailureSource = iota
	// SourceService marks images the service refused during upload.
	SourceService
)

// Failure is one image that will not be printed.
type Failure struct {
	Path   string
	Source FailureSource
	Reason string
}

// PrintedImage is one image that made it into the order.
type PrintedImage struct {
	Path string

	// TakenAt is the EXIF capture date; zero when the image had none.
	TakenAt time.Time
}

// Result is the merged verdict across local validation and the service
// response.
type Result struct {
	Status      Status
	OrderNumber string
	StoreNum    string

	// PickupDetails repeats the service's promise time verbatim.
	PickupDetails string

	Printed  []PrintedImage
	Failures []Failure
}

// Reconcile merges the local validation report with the submission
// outcome into one result. A nil outcome means the order was never
// submitted, which strands every locally accepted image.
func Reconcile(report imaging.Report, outcome *printapi.Outcome) Result {
	var res Result

	for _, c := range report.Rejected {
		res.Failures = append(res.Failures, Failure{
			Path:   c.Path,
			Source: SourceLocal,
			Reason: c.Detail,
		})
	}

	if outcome == nil {
		res.Status = StatusFailure
		for _, c := range report.Accepted {
			res.Failures = append(res.Failures, Failure{
				Path:   c.Path,
				Source: SourceLocal,
				Reason: "order was not submitted",
			})
		}
		return res
	}

	res.OrderNumber = outcome.OrderNumber
	res.StoreNum = outcome.StoreNum
	res.PickupDetails = outcome.PickupDetails

	taken := make(map[string]time.Time, len(report.Accepted))
	for _, c := range report.Accepted {
		taken[c.Path] = c.TakenAt
	}
	for _, path := range outcome.Accepted {
		res.Printed = append(res.Printed, PrintedImage{Path: path, TakenAt: taken[path]})
	}

	// Walk the local report rather than the outcome map so the failures
	// keep the submission order.
	for _, c := range report.Accepted {
		if reason, ok := outcome.Rejected[c.Path]; ok {
			res.Failures = append(res.Failures, Failure{
				Path:   c.Path,
				Source: SourceService,
				Reason: reason,
			})
		}
	}

	switch {
	case len(res.Printed) == 0:
		res.Status = StatusFailure
	case len(res.Failures) > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusSuccess
	}
	return res
}

// ExitCode maps a result to the process exit code. A partial order still
// exists at the store, so it exits clean.
func (r Result) ExitCode() int {
	if r.Status == StatusFailure {
		return 1
	}
	return 0
}
