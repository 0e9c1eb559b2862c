package pipeline

// Record is one successfully decoded record buffered inside a pipeline.
// Records are immutable after construction.
type Record struct {
	ID   uint8
	Body []byte
}

// bufferEntry pairs a record with its arrival sequence inside one pipeline.
// The sequence breaks ID ties so that duplicate IDs drain in FIFO order.
type bufferEntry struct {
	rec Record
	seq uint64
}

// recordBuffer is a min-heap of records ordered by ID ascending,
// FIFO among equal IDs. It implements heap.Interface.
type recordBuffer []bufferEntry

func (b recordBuffer) Len() int { return len(b) }

func (b recordBuffer) Less(i, j int) bool {
	if b[i].rec.ID != b[j].rec.ID {
		return b[i].rec.ID < b[j].rec.ID
	}

	return b[i].seq < b[j].seq
}

func (b recordBuffer) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b *recordBuffer) Push(x any) {
	*b = append(*b, x.(bufferEntry))
}

func (b *recordBuffer) Pop() any {
	old := *b
	n := len(old)
	entry := old[n-1]
	*b = old[:n-1]

	return entry
}
