package usecase

const (
	// MaxImportRows bounds how many data rows one workbook may carry.
	MaxImportRows = 1000

	// DefaultPageSize and MaxPageSize bound list endpoints.
	DefaultPageSize = 50
	MaxPageSize     = 500
)
