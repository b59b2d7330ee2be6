package sync

// Action is the closed set of remote mutations the outbound pass can emit
// for one record. The switch over it is exhaustive; adding a variant without
// handling it everywhere will not compile quietly past a reviewer.
type Action interface {
	action()
}

// TrashMove deletes the record remotely; on success the local row is removed
// permanently.
type TrashMove struct {
	RemoteID string
}

// LabelDelta applies the minimal label change for a previously-synced mail
// record. Add and Remove never contain the full set.
type LabelDelta struct {
	RemoteID string
	Add      []string
	Remove   []string
}

// ContentUpdate pushes local content of a previously-synced event.
type ContentUpdate struct {
	RemoteID string
}

// Create pushes a never-synced record and adopts the returned remote id.
type Create struct{}

func (TrashMove) action()     {}
func (LabelDelta) action()    {}
func (ContentUpdate) action() {}
func (Create) action()        {}
