package profile

// Store maps function identities to their aggregate records. Insertion is
// append-only during a session; records are only removed by a full Reset.
// The store is single-writer by contract (the event hook) and carries no
// locking.
type Store struct {
	records map[Identity]*FunctionRecord
}

func NewStore() *Store {
	return &Store{
		records: make(map[Identity]*FunctionRecord),
	}
}

// GetOrCreate returns the record for id, creating and registering a
// zeroed one when none exists yet. The display form is fixed at creation.
func (s *Store) GetOrCreate(id Identity, display string) *FunctionRecord {
	if rec, ok := s.records[id]; ok {
		return rec
	}

	rec := &FunctionRecord{ID: id, Display: display}
	s.records[id] = rec

	return rec
}

// Reset discards all records.
func (s *Store) Reset() {
	s.records = make(map[Identity]*FunctionRecord)
}

// All returns a snapshot of the current records in unspecified order.
// The report generator sorts its own copy.
func (s *Store) All() []*FunctionRecord {
	recs := make([]*FunctionRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}

	return recs
}

// Len returns the number of distinct function identities observed.
func (s *Store) Len() int {
	return len(s.records)
}
