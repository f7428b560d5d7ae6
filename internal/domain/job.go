package domain

// JobRecord is one listing extracted from a source. Title and Link must be
// non-empty for the record to count; extraction drops anything else.
type JobRecord struct {
	Title   string
	Company string
	Link    string
	Detail  string
	Source  string
}

func (r JobRecord) Valid() bool {
	return r.Title != "" && r.Link != ""
}

// SeenID is the composite identity the seen-ledger keys on. Two postings with
// the same source, link and title are the same posting.
func (r JobRecord) SeenID() string {
	return r.Source + "_" + r.Link + "_" + r.Title
}
