package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLoadDataset   = errors.New("load dataset failed")
	ErrDecodeDataset = errors.New("decode dataset failed")
	ErrWatchDataset  = errors.New("watch dataset failed")
)
