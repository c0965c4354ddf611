package checks

// PartitionIndex splits the index range [0, maxIndex) into count
// contiguous chunks with a maximum imbalance of one item, spreading
// the remainder over the leading chunks.
func PartitionIndex(maxIndex, count int) [][2]int {
	if count < 1 {
		count = 1
	}
	if count > maxIndex {
		count = maxIndex
	}
	if maxIndex <= 0 {
		return nil
	}
	per := maxIndex / count
	remainder := maxIndex % count
	out := make([][2]int, count)
	start := 0
	for i := range out {
		n := per
		if i < remainder {
			n++
		}
		out[i] = [2]int{start, start + n}
		start += n
	}
	return out
}

// PartitionBySize splits [0, maxIndex) into chunks of at most
// chunkSize items.
func PartitionBySize(maxIndex, chunkSize int) [][2]int {
	if maxIndex <= 0 {
		return nil
	}
	if chunkSize < 1 {
		chunkSize = maxIndex
	}
	out := make([][2]int, 0, (maxIndex+chunkSize-1)/chunkSize)
	for start := 0; start < maxIndex; start += chunkSize {
		end := start + chunkSize
		if end > maxIndex {
			end = maxIndex
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
