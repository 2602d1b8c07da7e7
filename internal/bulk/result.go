package bulk

// FailureDetail records one failed row: where it was, which business
// keys it carried and why it was rejected.
type FailureDetail struct {
	RowNumber int
	Keys      map[string]string
	Message   string
}

// BatchResult summarizes one batch run. SuccessCount plus FailureCount
// always equals TotalCount, and Failures is ordered by processing
// order.
type BatchResult struct {
	TotalCount   int
	SuccessCount int
	FailureCount int
	Failures     []FailureDetail
}

func (r *BatchResult) recordFailure(row RowRecord, keys map[string]string, err error) {
	r.Failures = append(r.Failures, FailureDetail{
		RowNumber: row.Number,
		Keys:      keys,
		Message:   err.Error(),
	})
	r.FailureCount = len(r.Failures)
}
