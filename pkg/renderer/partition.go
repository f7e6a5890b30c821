package renderer

// Band is a half-open range of image rows
type Band struct {
	StartRow int
	EndRow   int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.EndRow - b.StartRow
}

// Partition splits height rows into bands of ceil(height/workers) rows.
// Every row belongs to exactly one band; trailing workers may get no band.
func Partition(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := (height + workers - 1) / workers

	bands := make([]Band, 0, workers)
	for start := 0; start < height; start += size {
		bands = append(bands, Band{StartRow: start, EndRow: min(height, start+size)})
	}
	return bands
}
