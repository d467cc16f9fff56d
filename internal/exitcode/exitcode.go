package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	IngestError     = 3
	ReportError     = 4
	DBConnError     = 5
	PublishError    = 6
)
